// Package ui implements the interactive terminal views using bubbletea's Elm architecture.
//
// Two programs are provided:
//  1. [AuthWizard] : Collect YouTube Music browser headers from a pasted cURL command or
//     from individually copied Cookie, Authorization and X-Goog-AuthUser values, then write browser.json
//  2. [ProgressModel] : Show a spinner and live progress while a genre graph is built
//
// Both models implement bubbletea's standard Init/Update/View pattern and receive their own
// events through the [Msg] union type. Build progress flows through a channel from the
// GraphBuilder, providing non-blocking status reporting while Last.fm lookups run.
//
// Contextual key help is rendered with charmbracelet/bubbles/help.
package ui
