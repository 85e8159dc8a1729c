package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/heartrisk/internal/batch"
	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// RiskAlert describes a High Risk assessment worth a human look.
type RiskAlert struct {
	Reference  string
	Source     string
	Inputs     fuzzy.Inputs
	Assessment fuzzy.Assessment
}

// PostHighRiskAlert posts an alert for a single assessment.
func (p *Poster) PostHighRiskAlert(ctx context.Context, alert RiskAlert) error {
	text := formatAlertMessage(alert)

	ts, err := p.post(ctx, map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": "Decision support only. Confirm with a clinician.",
					},
				},
			},
		},
	})
	if err != nil {
		return err
	}

	p.logger.Info("posted high risk alert to slack", "ts", ts, "ref", alert.Reference)
	return nil
}

// PostBatchSummary posts the summary of a finished batch run.
func (p *Poster) PostBatchSummary(ctx context.Context, report *batch.Report) error {
	ts, err := p.post(ctx, map[string]any{
		"channel": p.channel,
		"text":    batch.FormatSummary(report),
	})
	if err != nil {
		return err
	}

	p.logger.Info("posted batch summary to slack", "ts", ts, "run_id", report.RunID)
	return nil
}

// post sends a chat.postMessage payload and returns the message timestamp.
func (p *Poster) post(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}
	return slackResp.TS, nil
}

func formatAlertMessage(alert RiskAlert) string {
	a := alert.Assessment
	in := alert.Inputs

	var sb strings.Builder
	fmt.Fprintf(&sb, "*High cardiovascular risk* (%s)\n", alert.Reference)
	if alert.Source != "" {
		fmt.Fprintf(&sb, "*Source:* %s\n", alert.Source)
	}
	fmt.Fprintf(&sb, "*Score:* %.2f | *Level:* %s | *Rules fired:* %d\n\n", a.Score, a.Level, a.RulesFired)

	sb.WriteString("*Inputs*\n")
	fmt.Fprintf(&sb, "  chest pain %.0f, HbA1c %.1f, HDL %.1f, LDL %.1f\n", in.ChestPain, in.HbA1c, in.HDL, in.LDL)
	fmt.Fprintf(&sb, "  heart rate %.0f, age %.0f, blood pressure %.0f\n", in.HeartRate, in.Age, in.BloodPressure)

	if drivers := strongestTerms(a.Memberships); len(drivers) > 0 {
		sb.WriteString("\n*Strongest terms:* ")
		sb.WriteString(strings.Join(drivers, ", "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// strongestTerms lists each variable's highest-membership label, ordered by
// variable name.
func strongestTerms(m fuzzy.Memberships) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		best, bestDeg := "", 0.0
		for label, deg := range m[name] {
			if deg > bestDeg || (deg == bestDeg && deg > 0 && label < best) {
				best, bestDeg = label, deg
			}
		}
		if bestDeg > 0 {
			out = append(out, fmt.Sprintf("%s=%s (%.2f)", name, best, bestDeg))
		}
	}
	return out
}
