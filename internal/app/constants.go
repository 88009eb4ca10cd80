package app

import "fortyone/internal/bot"

// FallbackLevel is the strategy used to play for a player whose turn timed out.
// Keep this centralized so tests or local runs can adjust it without touching the handler.
const FallbackLevel = bot.BotLevelMedium
