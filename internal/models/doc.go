// Package models lists the models an AI provider account can use, grouped
// by owner, so a profile can be pointed at one of them.
package models
