package main

import (
	"context"
	"errors"
	"net"

	"sumpro/internal/api"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HasCode("unauthorized") || apiErr.HasCode("forbidden"):
			lines = append(lines, "hint: verify SUMPRO_ADMIN_TOKEN is set and matches the server.")
		case apiErr.HasCode("resource_exhausted"):
			lines = append(lines, "hint: too many attempts; retry shortly.")
		case apiErr.HasCode("mail_failure"):
			lines = append(lines, "hint: check mail.host/mail.port and SUMPRO_SMTP_PASSWORD.")
		}
		if apiErr.Status >= 500 {
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase SUMPRO_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure a sumpro server is running at SUMPRO_API_URL.",
			"hint: start a local server manually with: sumpro srv",
		)
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
