package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/standings"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendResultNotification posts a recorded match result to the channel.
func (s *Notifier) SendResultNotification(result notifier.ResultSummary, dryRun bool) error {
	msg := s.formatResultNotification(result)
	return s.sendMessage(msg, dryRun)
}

// SendStandings posts the current standings table for a pool to the channel.
func (s *Notifier) SendStandings(table standings.Table, pool string, dryRun bool) error {
	msg := s.formatStandings(table, pool)
	return s.sendMessage(msg, dryRun)
}

// FormatStandingsResponse formats a standings message for a slash command response.
func (s *Notifier) FormatStandingsResponse(table standings.Table, pool string) (any, error) {
	return s.formatStandings(table, pool), nil
}

// formatResultNotification creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatResultNotification(result notifier.ResultSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Match result recorded! 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	winner := result.TeamA
	if result.ScoreB >= result.ScoreA {
		winner = result.TeamB
	}
	detailsText := fmt.Sprintf("%s %d – %d %s\n%s won! 🏆", result.TeamA, result.ScoreA, result.ScoreB, result.TeamB, winner)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	contextText := fmt.Sprintf("Pool %s, round %d", result.Pool, result.Round)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatStandings renders the table in a fixed-width code block so the
// columns line up in Slack.
func (s *Notifier) formatStandings(table standings.Table, pool string) slack.Message {
	blocks := make([]slack.Block, 0)

	header := "🏓 Standings 🏓"
	if pool != "" {
		header = fmt.Sprintf("🏓 Standings: Pool %s 🏓", pool)
	}
	headerText := slack.NewTextBlockObject("plain_text", header, true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(table) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No teams in this pool yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	nameWidth := len("Team")
	for _, row := range table {
		if l := len(row.Team); l > nameWidth {
			nameWidth = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s %3s %3s %3s %4s %4s %5s %4s\n",
		nameWidth, "Team", "Pld", "W", "L", "PF", "PA", "PD", "Pts"))
	for _, row := range table {
		sb.WriteString(fmt.Sprintf("%-*s %3d %3d %3d %4d %4d %+5d %4d\n",
			nameWidth, row.Team, row.Played, row.Wins, row.Losses,
			row.PointsFor, row.PointsAgainst, row.PointDiff, row.Points))
	}

	tableText := slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("```%s```", sb.String()), false, false)
	blocks = append(blocks, slack.NewSectionBlock(tableText, nil, nil))

	return slack.NewBlockMessage(blocks...)
}
