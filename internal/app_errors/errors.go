package app_errors

import "errors"

var ErrVersionConflict = errors.New("progress record version conflict")
var ErrRecordNotFound = errors.New("progress record not found")
var ErrInvalidEvent = errors.New("invalid progress event")
var ErrLessonNotFound = errors.New("lesson not found")
var ErrCourseNotFound = errors.New("course not found")
var ErrQuizNotFound = errors.New("quiz not found")
var ErrAttemptsExhausted = errors.New("quiz attempts exhausted")
var ErrTimeExceeded = errors.New("quiz time limit exceeded")
var ErrAttemptNotStarted = errors.New("quiz attempt was not started")
var ErrGateNotSatisfied = errors.New("pre-course survey required")
var ErrNotEligible = errors.New("course is not complete")
var ErrAlreadyIssued = errors.New("certificate already issued")
var ErrCertificateNotIssued = errors.New("certificate not issued")
var ErrTokenExpired = errors.New("token expired")
