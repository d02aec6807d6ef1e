package middleware

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

type AlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

// ErrorAlertMiddleware recovers panics on the service's surfaces and ships
// deduplicated error alerts to a webhook. With no webhook configured it
// degrades to log-only panic recovery.
type ErrorAlertMiddleware struct {
	config        AlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration // prevent spam
}

func NewErrorAlertMiddleware(config AlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute,
	}
}

// HTTPMiddleware wraps HTTP handlers with panic recovery and alerting.
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverAndAlert(w, fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// WrapBackgroundTask wraps a background task with panic recovery and
// alerting on returned errors.
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() error {
		defer m.recoverAndAlert(nil, fmt.Sprintf("Background task: %s", taskName))

		if err := task(); err != nil {
			m.alertOnError(err, fmt.Sprintf("Background task: %s", taskName))
			return err
		}
		return nil
	}
}

func (m *ErrorAlertMiddleware) alertOnError(err error, context string) {
	errorMsg := fmt.Sprintf("%s: %v", context, err)

	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists {
		if time.Since(lastAlert) < m.alertCooldown {
			return // too recent
		}
	}

	go m.sendWebhookAlert(errorMsg, context)
	m.alertedErrors[hash] = time.Now()
}

func (m *ErrorAlertMiddleware) recoverAndAlert(w http.ResponseWriter, context string) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("%s: PANIC - %v", context, r)
		log.Printf("❌ %s", errorMsg)
		if w != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		go m.sendWebhookAlert(errorMsg, context+" (PANIC)")
	}
}

func (m *ErrorAlertMiddleware) sendWebhookAlert(errorMsg, context string) {
	if m.config.WebhookURL == "" {
		return // alerting disabled
	}

	payload := map[string]any{
		"service":     m.config.AppName,
		"environment": m.config.Environment,
		"context":     context,
		"error":       errorMsg,
		"logs_url":    m.config.LogsURL,
	}

	payloadBytes, _ := json.Marshal(payload)

	resp, err := http.Post(m.config.WebhookURL, "application/json",
		strings.NewReader(string(payloadBytes)))
	if err != nil {
		log.Printf("❌ Failed to send alert: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		log.Printf("❌ Alert webhook failed with status: %d", resp.StatusCode)
	}
}
