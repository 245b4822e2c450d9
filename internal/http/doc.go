// Package http provides HTTP handlers and middleware for the practice
// manager API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}.
//     Response: {"token","expires_at","user"} with the token also surfaced via
//     the `X-Session-Token` header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the caller's own session token.
//   - DELETE /sessions/{token}: administrator revocation of another session.
//   - GET/POST /events, GET/PUT/DELETE /events/{id}: calendar event endpoints
//     exchanging the `eventDTO` payload defined in event_handler.go. Listing
//     accepts mode, date, and filter query parameters and returns the visible
//     range alongside the projected events.
//   - GET /calendar/feed.ics: the full calendar as an iCalendar document.
//   - GET/POST /clients, GET/PUT/DELETE /clients/{id}: client records.
//   - GET/POST /cases, GET/PUT/DELETE /cases/{id}: legal matters. Listing
//     accepts client_id and status query parameters.
//   - GET/POST /tasks, GET/PUT/DELETE /tasks/{id}: work items. Listing accepts
//     case_id, status, and due_before query parameters.
//   - GET/POST /users, GET/PUT/DELETE /users/{id}: administrator controlled
//     staff account management.
//   - POST /assistant/ask: natural language questions about practice data.
//   - GET /search: substring search across events, clients, and cases.
//   - GET /notifications: the active toast feed.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
