package review

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/revue/internal/baselib/actor"
	"github.com/roasbeef/revue/internal/conference"
	"github.com/roasbeef/revue/internal/config"
	"github.com/roasbeef/revue/internal/store"
)

// RebuttalFailureReply is appended as the reviewer turn when rebuttal
// generation fails, so the dialogue still grows by exactly one reply
// per author turn.
const RebuttalFailureReply = "System Error: Could not generate response."

// SubmissionServiceKey is the service key for the submission service
// actor.
var SubmissionServiceKey = actor.NewServiceKey[
	SubmissionRequest, SubmissionResponse,
]("submission-service")

// Ensure Service implements ActorBehavior.
var _ actor.ActorBehavior[SubmissionRequest, SubmissionResponse] = (*Service)(nil)

// ConfigProvider supplies the current app configuration. The submission
// service reads it per operation so settings edits apply to the next
// pipeline run without a restart.
type ConfigProvider interface {
	CurrentConfig(ctx context.Context) (config.AppConfig, error)
}

// StatusNotifier receives submission status changes for real-time
// fan-out to connected browsers.
type StatusNotifier interface {
	NotifyStatusChange(submissionID string, oldStatus, newStatus Status)
}

// DocumentExtractor converts an uploaded document to plain paper text.
type DocumentExtractor interface {
	Extract(fileName string, data []byte) (string, error)
}

// ServiceConfig holds configuration for the submission service.
type ServiceConfig struct {
	// Store is the storage backend for submissions and dialogue.
	Store store.Storage

	// Gateway drives the hosted model for all three pipeline stages.
	Gateway Gateway

	// Config supplies the app configuration snapshot per operation.
	Config ConfigProvider

	// Extractor converts uploaded documents to text. Required only
	// when document ingestion is used.
	Extractor DocumentExtractor

	// Notifier receives status change events. May be nil.
	Notifier StatusNotifier
}

// Service orchestrates the review pipeline as an actor. It owns the
// per-submission FSMs, launches pipeline stages against the gateway,
// and applies their outcomes serially through applyEvent.
type Service struct {
	store     store.Storage
	gateway   Gateway
	config    ConfigProvider
	extractor DocumentExtractor
	notifier  StatusNotifier

	// ctx bounds the lifetime of stage goroutines. Cancelled in
	// OnStop.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Active submission FSMs, keyed by submission ID. Protected by
	// mu, which also serializes FSM event processing against the
	// stage goroutines.
	mu                sync.Mutex
	activeSubmissions map[string]*SubmissionFSM
}

// NewService creates a new submission service with the given
// configuration.
func NewService(cfg ServiceConfig) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		store:             cfg.Store,
		gateway:           cfg.Gateway,
		config:            cfg.Config,
		extractor:         cfg.Extractor,
		notifier:          cfg.Notifier,
		ctx:               ctx,
		cancel:            cancel,
		activeSubmissions: make(map[string]*SubmissionFSM),
	}
}

// SetNotifier installs the status notifier. The web hub is constructed
// after the service, so the daemon wires it in here before serving
// traffic.
func (s *Service) SetNotifier(n StatusNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Receive implements actor.ActorBehavior by dispatching to
// type-specific handlers.
func (s *Service) Receive(ctx context.Context,
	msg SubmissionRequest,
) fn.Result[SubmissionResponse] {
	switch m := msg.(type) {
	case StartReviewMsg:
		resp := s.handleStartReview(ctx, m)
		return fn.Ok[SubmissionResponse](resp)

	case IngestDocumentMsg:
		resp := s.handleIngestDocument(ctx, m)
		return fn.Ok[SubmissionResponse](resp)

	case GetSubmissionMsg:
		resp := s.handleGetSubmission(ctx, m)
		return fn.Ok[SubmissionResponse](resp)

	case ListSubmissionsMsg:
		resp := s.handleListSubmissions(ctx, m)
		return fn.Ok[SubmissionResponse](resp)

	case DeleteSubmissionMsg:
		resp := s.handleDeleteSubmission(ctx, m)
		return fn.Ok[SubmissionResponse](resp)

	case AppendRebuttalMsg:
		resp := s.handleAppendRebuttal(ctx, m)
		return fn.Ok[SubmissionResponse](resp)

	default:
		return fn.Err[SubmissionResponse](fmt.Errorf(
			"unknown message type: %T", msg,
		))
	}
}

// resolveConference returns the effective conference for an id, with
// user-defined entries shadowing built-ins.
func (s *Service) resolveConference(ctx context.Context,
	conferenceID string,
) (conference.Conference, config.AppConfig, error) {
	cfg, err := s.config.CurrentConfig(ctx)
	if err != nil {
		return conference.Conference{}, config.AppConfig{},
			fmt.Errorf("load config: %w", err)
	}

	conf, err := conference.Lookup(cfg.CustomConferences, conferenceID)
	if err != nil {
		return conference.Conference{}, config.AppConfig{}, err
	}

	return conf, cfg, nil
}

// handleStartReview creates a plain text submission and launches the
// screen stage.
func (s *Service) handleStartReview(ctx context.Context,
	msg StartReviewMsg,
) StartReviewResp {
	if _, _, err := s.resolveConference(ctx, msg.ConferenceID); err != nil {
		return StartReviewResp{Error: err}
	}

	submissionID := uuid.New().String()

	_, err := s.store.CreateSubmission(ctx, store.CreateSubmissionParams{
		ID:           submissionID,
		Title:        msg.Title,
		Content:      msg.Content,
		ConferenceID: msg.ConferenceID,
		Status:       string(StatusScreening),
	})
	if err != nil {
		return StartReviewResp{Error: err}
	}

	fsm := NewSubmissionFSM(
		submissionID, msg.Title, msg.ConferenceID, StatusScreening,
	)

	s.mu.Lock()
	s.activeSubmissions[submissionID] = fsm
	s.mu.Unlock()

	log.InfoS(ctx, "Submission created, launching screen stage",
		"submission_id", submissionID,
		"conference_id", msg.ConferenceID,
	)

	s.launchScreenStage(submissionID)

	return StartReviewResp{
		SubmissionID: submissionID,
		Status:       StatusScreening,
	}
}

// handleIngestDocument creates a submission in the parsing state and
// extracts the document text in the background.
func (s *Service) handleIngestDocument(ctx context.Context,
	msg IngestDocumentMsg,
) IngestDocumentResp {
	if s.extractor == nil {
		return IngestDocumentResp{
			Error: fmt.Errorf("document ingestion is not " +
				"configured"),
		}
	}
	if _, _, err := s.resolveConference(ctx, msg.ConferenceID); err != nil {
		return IngestDocumentResp{Error: err}
	}

	submissionID := uuid.New().String()

	_, err := s.store.CreateSubmission(ctx, store.CreateSubmissionParams{
		ID:           submissionID,
		Title:        msg.Title,
		Content:      "",
		ConferenceID: msg.ConferenceID,
		Status:       string(StatusParsing),
	})
	if err != nil {
		return IngestDocumentResp{Error: err}
	}

	fsm := NewSubmissionFSM(
		submissionID, msg.Title, msg.ConferenceID, StatusParsing,
	)

	s.mu.Lock()
	s.activeSubmissions[submissionID] = fsm
	s.mu.Unlock()

	log.InfoS(ctx, "Document submission created, extracting text",
		"submission_id", submissionID,
		"file_name", msg.FileName,
		"bytes", len(msg.Data),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		text, err := s.extractor.Extract(msg.FileName, msg.Data)
		if err != nil {
			log.ErrorS(s.ctx, "Document extraction failed", err,
				"submission_id", submissionID,
			)
			s.applyEvent(submissionID, ExtractionFailedEvent{
				Reason: err.Error(),
			})
			return
		}

		s.applyEvent(submissionID, TextExtractedEvent{Text: text})
	}()

	return IngestDocumentResp{
		SubmissionID: submissionID,
		Status:       StatusParsing,
	}
}

// handleGetSubmission returns the full view of one submission.
func (s *Service) handleGetSubmission(ctx context.Context,
	msg GetSubmissionMsg,
) GetSubmissionResp {
	sub, err := s.store.GetSubmission(ctx, msg.SubmissionID)
	if err != nil {
		return GetSubmissionResp{Error: err}
	}

	result, err := DecodeResult(sub.Result)
	if err != nil {
		return GetSubmissionResp{Error: err}
	}

	msgs, err := s.store.ListRebuttalMessages(ctx, msg.SubmissionID)
	if err != nil {
		return GetSubmissionResp{Error: err}
	}

	chat := make([]RebuttalTurn, len(msgs))
	for i, m := range msgs {
		chat[i] = RebuttalTurn{Role: m.Role, Text: m.Text}
	}

	return GetSubmissionResp{
		Submission: &SubmissionView{
			ID:           sub.ID,
			Title:        sub.Title,
			Content:      sub.Content,
			ConferenceID: sub.ConferenceID,
			Status:       Status(sub.Status),
			Result:       result,
			RebuttalChat: chat,
			CreatedAt:    sub.CreatedAt,
			UpdatedAt:    sub.UpdatedAt,
		},
	}
}

// handleListSubmissions returns dashboard summaries, newest first.
func (s *Service) handleListSubmissions(ctx context.Context,
	_ ListSubmissionsMsg,
) ListSubmissionsResp {
	subs, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return ListSubmissionsResp{Error: err}
	}

	summaries := make([]SubmissionSummary, len(subs))
	for i, sub := range subs {
		summary := SubmissionSummary{
			ID:           sub.ID,
			Title:        sub.Title,
			ConferenceID: sub.ConferenceID,
			Status:       Status(sub.Status),
			CreatedAt:    sub.CreatedAt,
		}

		result, err := DecodeResult(sub.Result)
		if err != nil {
			log.WarnS(ctx, "Skipping malformed result snapshot",
				err, "submission_id", sub.ID)
		} else if result != nil {
			summary.Summary = result.Summary
			summary.FinalDecision = result.FinalDecision
		}

		summaries[i] = summary
	}

	return ListSubmissionsResp{Submissions: summaries}
}

// handleDeleteSubmission removes a submission from tracking and
// storage. Rebuttal turns cascade with the record.
func (s *Service) handleDeleteSubmission(ctx context.Context,
	msg DeleteSubmissionMsg,
) DeleteSubmissionResp {
	s.mu.Lock()
	delete(s.activeSubmissions, msg.SubmissionID)
	s.mu.Unlock()

	if err := s.store.DeleteSubmission(ctx, msg.SubmissionID); err != nil {
		return DeleteSubmissionResp{Error: err}
	}

	return DeleteSubmissionResp{}
}

// handleAppendRebuttal runs one rebuttal round-trip: persist the author
// turn, generate the reviewer reply, persist it. The dialogue always
// grows by exactly two turns, with a fixed fallback reply when
// generation fails.
func (s *Service) handleAppendRebuttal(ctx context.Context,
	msg AppendRebuttalMsg,
) AppendRebuttalResp {
	sub, err := s.store.GetSubmission(ctx, msg.SubmissionID)
	if err != nil {
		return AppendRebuttalResp{Error: err}
	}

	if Status(sub.Status) != StatusCompleted {
		return AppendRebuttalResp{Error: fmt.Errorf(
			"rebuttal requires a completed review, "+
				"submission is %s", sub.Status,
		)}
	}

	result, err := DecodeResult(sub.Result)
	if err != nil {
		return AppendRebuttalResp{Error: err}
	}

	cfg, err := s.config.CurrentConfig(ctx)
	if err != nil {
		return AppendRebuttalResp{Error: err}
	}

	// The conference name falls back to the raw id if the conference
	// was deleted after the review completed.
	conferenceName := sub.ConferenceID
	if conf, err := conference.Lookup(
		cfg.CustomConferences, sub.ConferenceID,
	); err == nil {
		conferenceName = conf.Name
	}

	_, err = s.store.AppendRebuttalMessage(
		ctx, store.AppendRebuttalMessageParams{
			SubmissionID: msg.SubmissionID,
			Role:         RoleUser,
			Text:         msg.Text,
		},
	)
	if err != nil {
		return AppendRebuttalResp{Error: err}
	}

	msgs, err := s.store.ListRebuttalMessages(ctx, msg.SubmissionID)
	if err != nil {
		return AppendRebuttalResp{Error: err}
	}

	history := make([]RebuttalTurn, len(msgs))
	for i, m := range msgs {
		history[i] = RebuttalTurn{Role: m.Role, Text: m.Text}
	}

	reply, err := s.gateway.Rebuttal(ctx, RebuttalRequest{
		History:        history,
		PaperTitle:     sub.Title,
		InitialReview:  result,
		ConferenceName: conferenceName,
		Config:         cfg,
	})
	if err != nil {
		log.ErrorS(ctx, "Rebuttal generation failed", err,
			"submission_id", msg.SubmissionID,
		)
		reply = RebuttalFailureReply
	}

	_, err = s.store.AppendRebuttalMessage(
		ctx, store.AppendRebuttalMessageParams{
			SubmissionID: msg.SubmissionID,
			Role:         RoleModel,
			Text:         reply,
		},
	)
	if err != nil {
		return AppendRebuttalResp{Error: err}
	}

	chat := append(history, RebuttalTurn{Role: RoleModel, Text: reply})

	return AppendRebuttalResp{Reply: reply, Chat: chat}
}

// applyEvent feeds a pipeline event into a submission's FSM and
// executes the resulting outbox. Safe to call from stage goroutines:
// mu serializes all FSM processing.
func (s *Service) applyEvent(submissionID string, event PipelineEvent) {
	ctx := s.ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	fsm, ok := s.activeSubmissions[submissionID]
	if !ok {
		// Recover from storage, e.g. after a restart mid-pipeline.
		sub, err := s.store.GetSubmission(ctx, submissionID)
		if err != nil {
			log.ErrorS(ctx, "No FSM and no stored submission "+
				"for event", err,
				"submission_id", submissionID,
				"event", fmt.Sprintf("%T", event),
			)
			return
		}
		fsm = NewSubmissionFSMFromDB(
			sub.ID, sub.Title, sub.ConferenceID, sub.Status,
		)
		s.activeSubmissions[submissionID] = fsm
	}

	outbox, err := fsm.ProcessEvent(ctx, event)
	if err != nil {
		log.ErrorS(ctx, "FSM event processing failed", err,
			"submission_id", submissionID,
			"event", fmt.Sprintf("%T", event),
		)
		return
	}

	s.processOutbox(ctx, outbox)

	if fsm.IsTerminal() {
		log.InfoS(ctx, "Submission reached terminal status",
			"submission_id", submissionID,
			"status", fsm.CurrentStatus(),
		)
		delete(s.activeSubmissions, submissionID)
	}
}

// processOutbox dispatches outbox events from the FSM to storage, the
// notifier, and the stage launcher. Called with mu held.
func (s *Service) processOutbox(ctx context.Context,
	events []OutboxEvent,
) {
	for _, event := range events {
		switch e := event.(type) {
		case PersistStatus:
			err := s.store.UpdateSubmissionStatus(
				ctx, e.SubmissionID, string(e.NewStatus),
			)
			if err != nil {
				log.ErrorS(ctx, "Failed to persist status",
					err,
					"submission_id", e.SubmissionID,
					"status", e.NewStatus,
				)
			}

		case PersistContent:
			err := s.store.UpdateSubmissionContent(
				ctx, e.SubmissionID, e.Text,
			)
			if err != nil {
				log.ErrorS(ctx, "Failed to persist "+
					"extracted text", err,
					"submission_id", e.SubmissionID,
				)
			}

		case MergeResult:
			if err := s.mergeResult(ctx, e); err != nil {
				log.ErrorS(ctx, "Failed to merge result",
					err,
					"submission_id", e.SubmissionID,
				)
			}

		case NotifyStatusChange:
			if s.notifier != nil {
				s.notifier.NotifyStatusChange(
					e.SubmissionID, e.OldStatus,
					e.NewStatus,
				)
			}

		case RunScreenStage:
			s.launchScreenStage(e.SubmissionID)

		case RunReviewStage:
			s.launchReviewStage(e.SubmissionID)
		}
	}
}

// mergeResult shallow-merges a stage's result delta over the stored
// snapshot.
func (s *Service) mergeResult(ctx context.Context, e MergeResult) error {
	sub, err := s.store.GetSubmission(ctx, e.SubmissionID)
	if err != nil {
		return err
	}

	delta, err := json.Marshal(e.Delta)
	if err != nil {
		return fmt.Errorf("encode result delta: %w", err)
	}

	merged, err := MergeSnapshots(sub.Result, delta)
	if err != nil {
		return err
	}

	return s.store.UpdateSubmissionResult(ctx, e.SubmissionID, merged)
}

// launchScreenStage runs the desk reject check in the background and
// feeds its outcome back into the FSM.
func (s *Service) launchScreenStage(submissionID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runScreenStage(submissionID)
	}()
}

func (s *Service) runScreenStage(submissionID string) {
	ctx := s.ctx

	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		s.applyEvent(submissionID, PipelineFailedEvent{
			Reason: err.Error(),
		})
		return
	}

	conf, cfg, err := s.resolveConference(ctx, sub.ConferenceID)
	if err != nil {
		s.applyEvent(submissionID, PipelineFailedEvent{
			Reason: err.Error(),
		})
		return
	}

	verdict, err := s.gateway.Screen(ctx, ScreenRequest{
		PaperText:  sub.Content,
		Conference: conf,
		Config:     cfg,
	})
	if err != nil {
		// Screen errors only on missing credentials, which is
		// fatal. Transport errors already degraded to a pass
		// verdict inside the gateway.
		s.applyEvent(submissionID, PipelineFailedEvent{
			Reason: err.Error(),
		})
		return
	}

	if verdict.IsDeskReject {
		s.applyEvent(submissionID, DeskRejectedEvent{
			Reason: verdict.Reason,
		})
		return
	}

	s.applyEvent(submissionID, ScreenPassedEvent{Reason: verdict.Reason})
}

// launchReviewStage runs the full review in the background and feeds
// its outcome back into the FSM.
func (s *Service) launchReviewStage(submissionID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runReviewStage(submissionID)
	}()
}

func (s *Service) runReviewStage(submissionID string) {
	ctx := s.ctx

	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		s.applyEvent(submissionID, PipelineFailedEvent{
			Reason: err.Error(),
		})
		return
	}

	conf, cfg, err := s.resolveConference(ctx, sub.ConferenceID)
	if err != nil {
		s.applyEvent(submissionID, PipelineFailedEvent{
			Reason: err.Error(),
		})
		return
	}

	result, err := s.gateway.Review(ctx, ReviewRequest{
		PaperText:  sub.Content,
		Conference: conf,
		Config:     cfg,
	})
	if err != nil {
		log.ErrorS(ctx, "Review stage failed", err,
			"submission_id", submissionID,
		)
		s.applyEvent(submissionID, PipelineFailedEvent{
			Reason: err.Error(),
		})
		return
	}

	s.applyEvent(submissionID, ReviewCompletedEvent{Result: result})
}

// RecoverSubmissions marks submissions stranded in a non-terminal
// status as failed. The gateway calls they were waiting on died with
// the previous process, so their pipelines cannot make progress.
// Called on daemon startup.
func (s *Service) RecoverSubmissions(ctx context.Context) error {
	subs, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}

	for _, sub := range subs {
		if Status(sub.Status).IsTerminal() {
			continue
		}

		log.InfoS(ctx, "Marking stranded submission as failed",
			"submission_id", sub.ID,
			"previous_status", sub.Status,
		)

		err := s.store.UpdateSubmissionStatus(
			ctx, sub.ID, string(StatusFailed),
		)
		if err != nil {
			return fmt.Errorf("fail stranded submission %s: %w",
				sub.ID, err)
		}
	}

	return nil
}

// ActiveSubmissionCount returns the number of submissions with a
// non-terminal FSM in memory.
func (s *Service) ActiveSubmissionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeSubmissions)
}

// OnStop implements actor.Stoppable. It cancels in-flight stage
// goroutines and waits for them to exit.
func (s *Service) OnStop(ctx context.Context) error {
	log.InfoS(ctx, "Submission service stopping, waiting for "+
		"in-flight stages")

	s.cancel()
	s.wg.Wait()

	return nil
}

// Ensure Service implements the Stoppable interface at compile time.
var _ actor.Stoppable = (*Service)(nil)
