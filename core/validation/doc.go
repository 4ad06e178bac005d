// Package validation checks request payloads against their `validate` struct tags
// and reports failures with json field paths and english messages.
package validation
