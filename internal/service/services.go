package service

import (
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/auth"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/certificate"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/course"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/progress"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/quiz"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/survey"
)

// Collection bundles the wired services for the delivery layer.
type Collection struct {
	ProgressService    *progress.ProgressService
	QuizService        *quiz.QuizService
	CourseService      *course.CourseService
	SurveyService      *survey.SurveyGateService
	CertificateService *certificate.CertificateService
	TokenManager       *auth.JWTManager
}
