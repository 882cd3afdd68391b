// Package api provides the REST API for valvula-mgr.
//
// It exposes the same operations as the command line over HTTP:
//   - listing and declaring valvula listeners and their modules
//   - inspecting Postfix restriction lists
//   - connecting a listener to a restriction list
//   - checking the valvulad daemon
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "ERROR_CODE",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
//
// Domain error codes (LISTENER_NOT_FOUND, UNSUPPORTED_LAYOUT, ...) are passed
// through unchanged so clients see the same codes as the CLI logs.
//
// Requests that modify valvula.conf or main.cf are serialized.
package api
