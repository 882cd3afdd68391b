// Package utils provides small helpers shared by the valvula-mgr packages.
//
//   - ParseHostPort parses listener declarations given on the command line or
//     in API requests ("3579", "127.0.0.1:3579", "[::1]:3579").
//   - GetAbsolutePath resolves paths from the settings file relative to it.
//   - CloseOrWarn closes files and logs failures.
package utils
