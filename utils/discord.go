// utils/discord.go — outbound Discord webhook notifications
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// SendDiscordNotification posts a plain content message to the configured
// webhook. Failures are logged, never propagated — notifications are best
// effort and must not fail the caller.
func SendDiscordNotification(message string) {
	webhookURL := os.Getenv("DISCORD_WEBHOOK_URL")
	if webhookURL == "" {
		log.Println("⚠️  DISCORD_WEBHOOK_URL not configured, skipping notification")
		return
	}

	payload, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		log.Printf("Failed to encode Discord payload: %v", err)
		return
	}

	resp, err := HTTPClient.Post(webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("Failed to send Discord notification: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("Discord webhook returned %s", resp.Status)
	}
}

// FormatTableLine renders one booking line for the Monday summary message.
func FormatTableLine(tableNumber int, gameName string) string {
	return fmt.Sprintf("**Table %d** - %s\n", tableNumber, gameName)
}
