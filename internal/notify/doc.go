// Package notify delivers switch recommendations. A Dispatcher fans each
// notification out asynchronously to a structured-log sink and to any
// configured webhooks (Slack, Teams, or generic HTTP). Whether a
// recommendation is announced at all is decided upstream by the advisor's
// debouncer; this package only handles delivery.
package notify
