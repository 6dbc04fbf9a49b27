// Package mcp exposes the evaluator as Model Context Protocol tools, so AI
// agents can delegate arithmetic to it.
package mcp
