// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package studio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"thumbstudio/internal/ai"
	"thumbstudio/internal/imaging"
	"thumbstudio/internal/models"
)

// TokenLedger debits and credits a user's token balance. Debits are
// conditional: a debit that would go negative reports ok=false without
// changing the balance.
type TokenLedger interface {
	DebitTokens(id uuid.UUID, amount int) (balance int, ok bool, err error)
	CreditTokens(id uuid.UUID, amount int) (int, error)
}

// Gateway produces and edits images through the active AI provider.
type Gateway interface {
	GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) (*ai.Image, error)
	EditImage(ctx context.Context, image []byte, contentType, prompt string) (*ai.Image, error)
}

// PromptScreener checks a prompt before any tokens are spent on it.
type PromptScreener interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// GenerationLog records completed paid operations for auditing.
type GenerationLog interface {
	Log(userID uuid.UUID, kind models.GenerationKind, prompt string, cost int) error
}

// Service runs the studio workflow: paid generations and edits with
// debit-then-refund token handling, slider adjustments, commits, and
// history navigation. All image and history data is per-session memory;
// only the token balance and the audit trail touch the database.
type Service struct {
	sessions *Manager
	gateway  Gateway
	ledger   TokenLedger
	screen   PromptScreener // optional
	audit    GenerationLog  // optional
	logger   *slog.Logger
}

// NewService wires the workflow. screen and audit may be nil.
func NewService(sessions *Manager, gateway Gateway, ledger TokenLedger, screen PromptScreener, audit GenerationLog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions: sessions,
		gateway:  gateway,
		ledger:   ledger,
		screen:   screen,
		audit:    audit,
		logger:   logger,
	}
}

// Result is the outcome of a paid operation: the new image plus the
// balance left after the debit.
type Result struct {
	Image   *models.GeneratedImage
	Balance int
}

// Generate produces a fresh image from a prompt. Tokens are debited up
// front and refunded in full if the provider call fails, so a failed
// generation nets to zero.
func (s *Service) Generate(ctx context.Context, sessionID string, userID uuid.UUID, prompt string, ratio models.AspectRatio) (*Result, error) {
	st := s.sessions.Get(sessionID)

	if err := s.checkPrompt(ctx, prompt); err != nil {
		return nil, err
	}

	st.mu.Lock()
	if st.inFlight {
		st.mu.Unlock()
		return nil, ErrBusy
	}
	st.inFlight = true
	st.ratio = ratio
	st.mu.Unlock()
	defer s.clearInFlight(st)

	balance, err := s.debit(userID)
	if err != nil {
		return nil, err
	}

	img, err := s.gateway.GenerateImage(ctx, prompt, ratio)
	if err != nil {
		s.refund(userID, models.TokenCostPerGeneration)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	entry := models.NewGeneratedImage(prompt, models.SourceGenerated, img.Data, img.ContentType)
	st.mu.Lock()
	st.pushLocked(entry)
	st.mu.Unlock()

	s.record(userID, models.GenerationKindGenerate, prompt)
	s.logger.Info("image generated",
		"user_id", userID, "image_id", entry.ID, "ratio", ratio, "balance", balance)

	return &Result{Image: entry, Balance: balance}, nil
}

// Edit sends the session's current image back through the provider with a
// modification prompt. Token handling matches Generate.
func (s *Service) Edit(ctx context.Context, sessionID string, userID uuid.UUID, prompt string) (*Result, error) {
	st := s.sessions.Get(sessionID)

	if err := s.checkPrompt(ctx, prompt); err != nil {
		return nil, err
	}

	st.mu.Lock()
	if st.inFlight {
		st.mu.Unlock()
		return nil, ErrBusy
	}
	if st.current == nil {
		st.mu.Unlock()
		return nil, ErrNoCurrentImage
	}
	source := st.current
	st.inFlight = true
	st.mu.Unlock()
	defer s.clearInFlight(st)

	balance, err := s.debit(userID)
	if err != nil {
		return nil, err
	}

	img, err := s.gateway.EditImage(ctx, source.Data, source.ContentType, prompt)
	if err != nil {
		s.refund(userID, models.TokenCostPerGeneration)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	entry := models.NewGeneratedImage(prompt, models.SourceAIEdit, img.Data, img.ContentType)
	st.mu.Lock()
	st.pushLocked(entry)
	st.mu.Unlock()

	s.record(userID, models.GenerationKindEdit, prompt)
	s.logger.Info("image edited",
		"user_id", userID, "image_id", entry.ID, "source_id", source.ID, "balance", balance)

	return &Result{Image: entry, Balance: balance}, nil
}

// UpdateAdjustments stores new slider positions for the session and
// returns the resulting state, including the live-preview filter string.
func (s *Service) UpdateAdjustments(sessionID string, adj imaging.Adjustments) Snapshot {
	st := s.sessions.Get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.adjustments = adj.Clamp()
	return st.snapshotLocked()
}

// Commit bakes the current adjustments into the current image, producing a
// new manual-edit history entry with the sliders reset. Committing neutral
// adjustments is a no-op that returns the current image unchanged.
func (s *Service) Commit(sessionID string) (*models.GeneratedImage, error) {
	st := s.sessions.Get(sessionID)

	st.mu.Lock()
	if st.current == nil {
		st.mu.Unlock()
		return nil, ErrNoCurrentImage
	}
	source := st.current
	adj := st.adjustments
	st.mu.Unlock()

	if adj.IsNeutral() {
		return source, nil
	}

	baked, err := imaging.Bake(source.Data, adj)
	if err != nil {
		return nil, fmt.Errorf("commit adjustments: %w", err)
	}

	entry := models.NewGeneratedImage(source.Prompt, models.SourceManualEdit, baked, "image/png")
	st.mu.Lock()
	st.pushLocked(entry)
	st.mu.Unlock()

	s.logger.Info("adjustments committed", "image_id", entry.ID, "source_id", source.ID)
	return entry, nil
}

// SelectHistory makes a history entry the current image. Selecting always
// resets the sliders, whether or not the entry was already current.
func (s *Service) SelectHistory(sessionID string, imageID uuid.UUID) (Snapshot, error) {
	st := s.sessions.Get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	img := st.findLocked(imageID)
	if img == nil {
		return Snapshot{}, ErrImageNotFound
	}
	st.current = img
	st.adjustments = imaging.DefaultAdjustments()
	return st.snapshotLocked(), nil
}

// Image fetches a history entry's payload for serving.
func (s *Service) Image(sessionID string, imageID uuid.UUID) (*models.GeneratedImage, error) {
	st := s.sessions.Get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	img := st.findLocked(imageID)
	if img == nil {
		return nil, ErrImageNotFound
	}
	return img, nil
}

// Current returns the session's current image, or ErrNoCurrentImage.
func (s *Service) Current(sessionID string) (*models.GeneratedImage, error) {
	st := s.sessions.Get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.current == nil {
		return nil, ErrNoCurrentImage
	}
	return st.current, nil
}

// Snapshot returns the session's full studio state.
func (s *Service) Snapshot(sessionID string) Snapshot {
	return s.sessions.Get(sessionID).Snapshot()
}

// ClearHistory wipes the session's images and resets the sliders. The
// aspect ratio selection survives.
func (s *Service) ClearHistory(sessionID string) Snapshot {
	st := s.sessions.Get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = nil
	st.history = nil
	st.adjustments = imaging.DefaultAdjustments()
	return st.snapshotLocked()
}

// EndSession discards all state for a session. Called on sign-out.
func (s *Service) EndSession(sessionID string) {
	s.sessions.Drop(sessionID)
}

func (s *Service) checkPrompt(ctx context.Context, prompt string) error {
	if s.screen == nil {
		return nil
	}
	res, err := s.screen.CheckPrompt(ctx, prompt)
	if err != nil {
		// Moderation outages must not block paying users.
		s.logger.Warn("prompt moderation unavailable", "error", err)
		return nil
	}
	if !res.Safe {
		return fmt.Errorf("%w: %s", ErrPromptRejected, strings.Join(res.Categories, ", "))
	}
	return nil
}

func (s *Service) debit(userID uuid.UUID) (int, error) {
	balance, ok, err := s.ledger.DebitTokens(userID, models.TokenCostPerGeneration)
	if err != nil {
		return 0, fmt.Errorf("debit tokens: %w", err)
	}
	if !ok {
		return 0, ErrInsufficientTokens
	}
	return balance, nil
}

func (s *Service) refund(userID uuid.UUID, amount int) {
	if _, err := s.ledger.CreditTokens(userID, amount); err != nil {
		s.logger.Error("token refund failed", "user_id", userID, "amount", amount, "error", err)
	}
}

func (s *Service) record(userID uuid.UUID, kind models.GenerationKind, prompt string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(userID, kind, prompt, models.TokenCostPerGeneration); err != nil {
		s.logger.Warn("generation audit log failed", "user_id", userID, "error", err)
	}
}

func (s *Service) clearInFlight(st *State) {
	st.mu.Lock()
	st.inFlight = false
	st.mu.Unlock()
}
