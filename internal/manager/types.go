package manager

// Stage names one step of the chat pipeline.
type Stage string

const (
	StageClassify Stage = "classify"
	StageExtract  Stage = "extract"
	StageRespond  Stage = "respond"
	StagePredict  Stage = "predict"
)

// Outcome labels for stage metrics and events.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)
