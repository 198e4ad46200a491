package utils

import (
	"log"
	"strings"
)

// LogEvent prints one line in the [MODULE] action=... request_id=... msg=... format.
// Keep msg to ids and counts; never log request bodies or credentials.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
