package review

import "github.com/roasbeef/revue/internal/baselib/actor"

// SubmissionActorRef is the typed actor reference for the submission
// service.
type SubmissionActorRef = actor.ActorRef[SubmissionRequest, SubmissionResponse]

// SubmissionTellOnlyRef is a tell-only reference to the submission
// service.
type SubmissionTellOnlyRef = actor.TellOnlyRef[SubmissionRequest]
