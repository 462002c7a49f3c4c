// Package chat turns user questions into answers: it embeds the question,
// retrieves the closest knowledge record, wraps it in a prompt and asks a
// generator. It is the only layer that converts failures into user-facing
// text, and it serves the chat UI and JSON endpoint over HTTP.
package chat
