// Package server exposes the bot over HTTP so a chat gateway can forward player commands.
//
// # Routing
//
// [BasicRouter] sits on an [http.ServeMux] and keeps one handler per method and path. Unknown methods
// on a known path get 405 with an Allow header. [Middleware] added with Use runs outermost-first in the
// order it was added; [New] installs panic recovery and request logging.
//
// # Interactions
//
// [InteractionsHandler] accepts one JSON command per POST on /interactions and answers with the embed
// the bot produced. When a shared token is configured, requests must carry it in the
// X-Interaction-Token header.
//
// # Health
//
// GET /health reports liveness and the number of games in progress.
package server
