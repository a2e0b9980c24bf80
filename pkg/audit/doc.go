// Package audit provides audit logging for envault operations.
//
// Security-relevant operations such as authentication attempts, secret
// reads and writes, exports, token changes and denied access are written as
// RFC5424 syslog lines and, when a store is configured, persisted to the
// audit_logs table.
//
// # Usage
//
//	audit.Log(audit.SecretWriteEvent{
//		UserID:        id.UserID,
//		ClientIP:      clientIP,
//		EnvironmentID: envID,
//		Key:           key,
//		Success:       true,
//	})
//
// Log does nothing when auditing is disabled.
package audit
