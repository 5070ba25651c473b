// Package core holds the domain contracts shared across the chat router:
// chat message and conversation turn types, the bounded context window, and
// the interfaces the router consumes (completion backend, tool discovery,
// outbound publisher, session store). Keeping the contracts here prevents
// higher level packages (dispatch, transport, cmd) from depending on
// concrete implementations.
package core
