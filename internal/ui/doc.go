// Package ui implements a terminal chat console for playing songle, using bubbletea's Elm architecture.
//
// The console mimics a chat channel: the player types slash commands (or a bare title to guess) into a
// [textinput.Model], and every bot reply is appended to a scrolling transcript rendered in a
// [viewport.Model]. Replies are rendered as embed cards with a border in the embed's color.
//
// Commands run asynchronously as [tea.Cmd]s, since starting a game talks to the catalog. The result
// comes back as a [Msg] of kind [MsgReply].
//
// Key bindings and contextual help use charmbracelet/bubbles/key and bubbles/help.
package ui
