package main

import (
	"fmt"
	"os"
	"time"

	"sumpro/internal/format"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(msg string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, msg, args...)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
