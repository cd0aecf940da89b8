package controller

import m "github.com/droidmod/gatepatch/internal/model"

// Message types.
type stageMsg struct {
	name string
}

type featureStartMsg struct {
	name string
}

type unitPatchedMsg struct {
	feature string
	unit    string
}

type featureDoneMsg struct {
	result m.FeatureResult
}
