package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ViolationKind tags what a validation violation is about.
type ViolationKind string

const (
	ViolationMissingTitle      ViolationKind = "missing_title"
	ViolationMissingTechnology ViolationKind = "missing_technology"
	ViolationInvalidLevel      ViolationKind = "invalid_level"
	ViolationNoQuestions       ViolationKind = "no_questions"
	ViolationQuestionText      ViolationKind = "question_text"
	ViolationQuestionOptions   ViolationKind = "question_options"
	ViolationCorrectAnswer     ViolationKind = "correct_answer"
	ViolationInvalidName       ViolationKind = "invalid_name"
	ViolationInvalidEmail      ViolationKind = "invalid_email"
	ViolationWeakPassword      ViolationKind = "weak_password"
	ViolationMissingPassword   ViolationKind = "missing_password"
	ViolationInvalidCount      ViolationKind = "invalid_count"
)

// Violation is one concrete validation failure.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

func (v Violation) Error() string { return v.Message }

// Violations is the full set of failures for one payload.
type Violations []Violation

func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, ", ")
}

// OrNil returns the list as an error, or nil when empty.
func (vs Violations) OrNil() error {
	if len(vs) == 0 {
		return nil
	}
	return vs
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateQuiz checks the authoring payload of a quiz, questions included.
func ValidateQuiz(q Quiz) Violations {
	var vs Violations
	if strings.TrimSpace(q.Title) == "" {
		vs = append(vs, Violation{ViolationMissingTitle, "title is required"})
	}
	if strings.TrimSpace(q.Technology) == "" {
		vs = append(vs, Violation{ViolationMissingTechnology, "technology is required"})
	}
	if !ValidLevel(string(q.Level)) {
		vs = append(vs, Violation{ViolationInvalidLevel, "level must be one of: basic, intermediate, advanced"})
	}
	if len(q.Questions) == 0 {
		vs = append(vs, Violation{ViolationNoQuestions, "at least one question is required"})
	}
	vs = append(vs, ValidateQuestions(q.Questions)...)
	return vs
}

// ValidateQuestions checks every question and collects all violations.
func ValidateQuestions(questions []Question) Violations {
	var vs Violations
	for i, q := range questions {
		vs = append(vs, validateQuestion(q, i)...)
	}
	return vs
}

func validateQuestion(q Question, index int) Violations {
	var vs Violations
	if strings.TrimSpace(q.Text) == "" {
		vs = append(vs, Violation{ViolationQuestionText, fmt.Sprintf("question %d: question text is required", index+1)})
	}
	if len(q.Options) < 2 {
		vs = append(vs, Violation{ViolationQuestionOptions, fmt.Sprintf("question %d: at least 2 options are required", index+1)})
	}
	if q.CorrectAnswer == "" {
		vs = append(vs, Violation{ViolationCorrectAnswer, fmt.Sprintf("question %d: correct answer is required", index+1)})
	} else if len(q.Options) > 0 && !contains(q.Options, q.CorrectAnswer) {
		vs = append(vs, Violation{ViolationCorrectAnswer, fmt.Sprintf("question %d: correct answer must be one of the options", index+1)})
	}
	return vs
}

// ValidateResultPayload checks a manually recorded result before derivation.
func ValidateResultPayload(title, technology, level string, totalQuestions, correct int) Violations {
	var vs Violations
	if strings.TrimSpace(title) == "" {
		vs = append(vs, Violation{ViolationMissingTitle, "title is required"})
	}
	if strings.TrimSpace(technology) == "" {
		vs = append(vs, Violation{ViolationMissingTechnology, "technology is required"})
	}
	if !ValidLevel(level) {
		vs = append(vs, Violation{ViolationInvalidLevel, "level must be one of: basic, intermediate, advanced"})
	}
	if totalQuestions < 1 {
		vs = append(vs, Violation{ViolationInvalidCount, "total questions must be a positive number"})
	}
	if correct < 0 {
		vs = append(vs, Violation{ViolationInvalidCount, "correct answers must be a non-negative number"})
	}
	if totalQuestions >= 1 && correct > totalQuestions {
		vs = append(vs, Violation{ViolationInvalidCount, "correct answers cannot exceed total questions"})
	}
	return vs
}

// ValidateRegistration checks a sign-up payload.
func ValidateRegistration(name, email, password string) Violations {
	var vs Violations
	if len(strings.TrimSpace(name)) < 2 {
		vs = append(vs, Violation{ViolationInvalidName, "name must be at least 2 characters long"})
	}
	if !emailRe.MatchString(email) {
		vs = append(vs, Violation{ViolationInvalidEmail, "valid email is required"})
	}
	if len(password) < 6 {
		vs = append(vs, Violation{ViolationWeakPassword, "password must be at least 6 characters long"})
	}
	return vs
}

// ValidateLogin checks a sign-in payload.
func ValidateLogin(email, password string) Violations {
	var vs Violations
	if !emailRe.MatchString(email) {
		vs = append(vs, Violation{ViolationInvalidEmail, "valid email is required"})
	}
	if password == "" {
		vs = append(vs, Violation{ViolationMissingPassword, "password is required"})
	}
	return vs
}

func contains(options []string, want string) bool {
	for _, o := range options {
		if o == want {
			return true
		}
	}
	return false
}
