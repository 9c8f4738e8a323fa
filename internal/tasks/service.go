package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/meetingd/internal/transcript"
)

// Generator produces a completion for a prompt. *completion.Client
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Service orchestrates one extraction: build the prompt, call the
// backend, parse, enrich, and dedup.
type Service struct {
	gen    Generator
	logger *zap.Logger
	now    func() time.Time
}

func NewService(gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gen:    gen,
		logger: logger,
		now:    time.Now,
	}
}

// Extract runs task extraction over a transcript. The dedup set may be
// nil to disable cross-call deduplication.
//
// A blank transcript yields no records and no backend call. On backend
// failure Extract returns the error alongside an empty slice; callers
// should present the empty result and log the error rather than fault.
func (s *Service) Extract(ctx context.Context, transcriptText string, dedup *Deduplicator) ([]Record, error) {
	start := s.now()
	defer func() {
		ExtractionDuration.Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(transcriptText) == "" {
		ExtractionsTotal.WithLabelValues("empty").Inc()
		return []Record{}, nil
	}

	prompt := s.buildPrompt(transcriptText)

	output, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		ExtractionsTotal.WithLabelValues("error").Inc()
		s.logger.Warn("task extraction backend call failed",
			zap.String("model", s.gen.Model()),
			zap.Error(err))
		return []Record{}, fmt.Errorf("generate tasks: %w", err)
	}

	records := ParseRecords(output)
	if len(records) == 1 && records[0].Source == SourceLLMRaw {
		RawFallbacks.Inc()
		s.logger.Info("model output was not JSON, keeping raw record",
			zap.Int("output_len", len(output)))
	}

	for i := range records {
		s.enrich(&records[i])
	}
	if dedup != nil {
		records = dedup.Filter(records)
	}

	ExtractionsTotal.WithLabelValues("success").Inc()
	RecordsExtracted.Add(float64(len(records)))
	s.logger.Debug("task extraction complete",
		zap.Int("records", len(records)),
		zap.String("model", s.gen.Model()))
	return records, nil
}

// Minutes generates structured meeting minutes for a transcript. Unlike
// Extract it returns the backend error directly; minutes are a
// request/response feature with no degraded mode worth serving.
func (s *Service) Minutes(ctx context.Context, transcriptText string) (string, error) {
	if strings.TrimSpace(transcriptText) == "" {
		return "", fmt.Errorf("transcript is empty")
	}

	var b strings.Builder
	b.WriteString("You are an assistant that writes minutes of meeting from a transcript.\n")
	b.WriteString("Produce plain text with these sections: Attendees, Summary, Decisions, Action Items.\n")
	if speakers := transcript.Speakers(transcriptText); len(speakers) > 0 {
		b.WriteString("Attendees: ")
		b.WriteString(strings.Join(speakers, ", "))
		b.WriteString("\n")
	}
	b.WriteString("\nTranscript:\n")
	b.WriteString(transcriptText)
	b.WriteString("\n")

	minutes, err := s.gen.Generate(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("generate minutes: %w", err)
	}
	return minutes, nil
}

// enrich fills the fields the model is not asked for: a unique task id,
// a resolved owner, and a human readable extraction time.
func (s *Service) enrich(r *Record) {
	r.TaskID = uuid.NewString()
	r.Owner = resolveOwner(*r)
	if r.AssignedTo == "" {
		r.AssignedTo = "Unassigned"
	}
	r.ExtractedAt = s.now().Format("Jan 2, 2006 3:04 PM")
}

// resolveOwner prefers the model's assignment, then the speaker of the
// line the task came from, then "Unassigned".
func resolveOwner(r Record) string {
	if v := strings.TrimSpace(r.AssignedTo); v != "" && !strings.EqualFold(v, "unassigned") {
		return v
	}
	if r.OriginalLine != "" {
		if line := transcript.ParseLine(r.OriginalLine); line.Speaker != "" {
			return line.Speaker
		}
	}
	return "Unassigned"
}

// buildPrompt frames the extraction request. The speaker roster and the
// current-year deadline rule are included so the model does not invent
// names or backdate deadlines.
func (s *Service) buildPrompt(transcriptText string) string {
	var b strings.Builder

	b.WriteString("You are an assistant that extracts action items from meeting transcripts.\n")
	b.WriteString("Respond with a JSON array ONLY, no prose and no markdown fences.\n")
	b.WriteString("Each array element must have this shape:\n")
	b.WriteString(`{"task": "<what must be done>", "original_line": "<the transcript line it came from>", "assigned_to": "<speaker name or empty>", "deadline": "<date or empty>", "labels": ["<short tag>"]}`)
	b.WriteString("\n\n")

	if speakers := transcript.Speakers(transcriptText); len(speakers) > 0 {
		b.WriteString("Known speakers: ")
		b.WriteString(strings.Join(speakers, ", "))
		b.WriteString(". Only assign tasks to these names.\n")
	}

	year := s.now().Year()
	fmt.Fprintf(&b, "When a deadline names a date without a year, assume %d.\n", year)
	b.WriteString("If the transcript contains no action items, respond with [].\n\n")

	b.WriteString("Transcript:\n")
	b.WriteString(transcriptText)
	b.WriteString("\n")
	return b.String()
}
