package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Match Errors =====
var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrSelfMatch          = errors.New("cannot match a user with themselves")
	ErrSurveyNotCompleted = errors.New("user has not completed a survey")
	ErrTemplateMismatch   = errors.New("users completed different survey templates")
	ErrMatchCalculation   = errors.New("match calculation failed")
)

// ===== Survey Errors =====
var (
	ErrTemplateNotFound     = errors.New("survey template not found")
	ErrUserSurveyNotFound   = errors.New("user survey not found")
	ErrSurveyAlreadyDone    = errors.New("survey already completed")
	ErrInvalidQuestionOrder = errors.New("question does not belong to the survey template")
)

// ===== User Errors =====
var (
	ErrUserNotFound = errors.New("user not found")
)
