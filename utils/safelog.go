// Safe logging: masks personal and financial data in production logs.

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// IsProduction controls whether sensitive data gets masked.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	ibanRegex  = regexp.MustCompile(`[A-Z]{2}\d{2}[A-Z0-9]{10,30}`)
	uuidRegex  = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

	amountWithCurrencyRegex = regexp.MustCompile(`\b\d+([.,]\d{1,2})?\s*(€|EUR|CHF|GBP|USD|£|\$)\b`)
)

// MaskString masks emails, IBANs, amounts and UUIDs when running in production.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = ibanRegex.ReplaceAllString(result, "****IBAN****")
	result = amountWithCurrencyRegex.ReplaceAllString(result, "***")
	result = uuidRegex.ReplaceAllStringFunc(result, func(id string) string {
		return id[:8] + "..."
	})

	return result
}

// MaskEmail keeps the first character of the local part: "a***@***.***".
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	at := strings.Index(email, "@")
	if at < 1 {
		return "***"
	}
	return email[:1] + "***@***.***"
}

// MaskAmount hides a monetary value in production.
func MaskAmount(amount decimal.Decimal) string {
	if IsProduction {
		return "***"
	}
	return amount.StringFixed(2)
}

func Debugf(format string, args ...interface{}) {
	if LogLevel <= LogLevelDebug {
		log.Printf("[DEBUG] %s", MaskString(fmt.Sprintf(format, args...)))
	}
}

func Infof(format string, args ...interface{}) {
	if LogLevel <= LogLevelInfo {
		log.Printf("[INFO] %s", MaskString(fmt.Sprintf(format, args...)))
	}
}

func Warnf(format string, args ...interface{}) {
	if LogLevel <= LogLevelWarn {
		log.Printf("[WARN] %s", MaskString(fmt.Sprintf(format, args...)))
	}
}

func Errorf(format string, args ...interface{}) {
	if LogLevel <= LogLevelError {
		log.Printf("[ERROR] %s", MaskString(fmt.Sprintf(format, args...)))
	}
}
