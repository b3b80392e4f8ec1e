package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/bwmarrin/discordgo"
)

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// NewDiscordSession builds a REST-only bot session; no gateway connection is opened.
func NewDiscordSession(botToken string) (*discordgo.Session, error) {
	if botToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	return discordgo.New("Bot " + botToken)
}

func (n *DiscordNotifier) NotifyReservation(ctx context.Context, event ReservationEvent) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, formatReservationMessage(event), discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

func formatReservationMessage(event ReservationEvent) string {
	r := event.Reservation

	var title string
	switch event.Type {
	case ReservationCreated:
		title = "🎟️ **New Reservation**"
	case ReservationStatusChanged:
		title = "🔄 **Reservation Status Update**"
	case ReservationCancelled:
		title = "🧟 **Reservation Cancelled**"
	default:
		title = "**Reservation Event**"
	}

	var b strings.Builder
	b.WriteString(title)
	fmt.Fprintf(&b, "\n**Number:** %s", r.ReservationNumber)
	if r.User != nil {
		fmt.Fprintf(&b, "\n**Visitor:** %s", r.User.DisplayName)
	}
	if r.Date != nil {
		fmt.Fprintf(&b, "\n**Visit:** %s", r.Date.Day.Format(models.DayLayout))
	}
	if r.Price != nil {
		fmt.Fprintf(&b, "\n**Tariff:** %s", r.Price.Label)
	}
	fmt.Fprintf(&b, "\n**Tickets:** %d\n**Total:** %s €\n**Status:** %s", r.TicketsCount, r.TotalAmount, r.Status)
	return b.String()
}
