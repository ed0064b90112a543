package tui

import (
	"github.com/Veraticus/lovetype/internal/model"
)

// Data loading messages.
type categoriesLoadedMsg struct {
	err    error
	labels []model.CategoryLabel
}

// diagnosisMsg carries the sequence number of the run that produced it so
// responses to abandoned runs can be dropped.
type diagnosisMsg struct {
	err       error
	diagnosis *model.Diagnosis
	seq       uint64
}

type detailLoadedMsg struct {
	err       error
	diagnosis *model.Diagnosis
}

type endpointSavedMsg struct {
	err     error
	baseURL string
}
