package domain

// Phase models the dictation session lifecycle. Exactly one phase is active
// at any time.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseRecording      Phase = "recording"
	PhaseProcessing     Phase = "processing"
	PhasePostProcessing Phase = "post_processing"
	PhaseRestarting     Phase = "restarting"
)

// CopyMethod selects the clipboard target used when finalizing a transcript.
type CopyMethod string

const (
	CopyMethodClipboard CopyMethod = "clipboard"
	CopyMethodPrimary   CopyMethod = "primary"
)

// Settings are the user-configurable fields carried in the snapshot and
// persisted across runs.
type Settings struct {
	LLMEnabled       bool       `json:"llmEnabled" mapstructure:"llm_enabled"`
	AutoPaste        bool       `json:"autoPaste" mapstructure:"auto_paste"`
	CopyMethod       CopyMethod `json:"copyMethod" mapstructure:"copy_method"`
	SmartText        bool       `json:"smartText" mapstructure:"smart_text_processing"`
	ShortPhraseWords int        `json:"shortPhraseWords" mapstructure:"smart_short_phrase_words"`
}

// Snapshot is the immutable application state. It is only ever replaced
// wholesale by the transition function; no component mutates it in place.
//
// SessionID is the session fence: it increments when a new recording session
// begins, every asynchronous completion carries the value captured at launch,
// and completions from superseded sessions are dropped.
type Snapshot struct {
	Phase     Phase    `json:"phase"`
	SessionID int      `json:"sessionId"`
	Settings  Settings `json:"settings"`

	RecognizedText string `json:"recognizedText"`
	ProcessedText  string `json:"processedText"`
	LastError      string `json:"lastError"`

	MonitorName string `json:"monitorName"`
}

// Event is the closed union of everything that can be dispatched to the
// store: user intents and asynchronous completions.
type Event interface {
	isEvent()
}

// RequestStart asks to begin a new recording session.
type RequestStart struct{}

// RequestStop ends recording and starts recognition.
type RequestStop struct{}

// RequestRestart discards the current recording and starts over.
type RequestRestart struct{}

// ToggleLLM flips LLM post-processing on or off.
type ToggleLLM struct{}

// MonitorChanged reports a display configuration change. UI-only.
type MonitorChanged struct {
	Name string
}

// RecognitionCompleted is the result of stopping capture and recognizing.
// Err is empty on success; Text may be empty when no speech was detected.
type RecognitionCompleted struct {
	SessionID int
	Text      string
	Err       string
}

// PostProcessingCompleted is the result of the LLM post-processing pass.
type PostProcessingCompleted struct {
	SessionID int
	Text      string
	Err       string
}

// RestartCompleted reports whether the stop-delay-start cycle succeeded.
type RestartCompleted struct {
	SessionID int
	Success   bool
	Err       string
}

func (RequestStart) isEvent()            {}
func (RequestStop) isEvent()             {}
func (RequestRestart) isEvent()          {}
func (ToggleLLM) isEvent()               {}
func (MonitorChanged) isEvent()          {}
func (RecognitionCompleted) isEvent()    {}
func (PostProcessingCompleted) isEvent() {}
func (RestartCompleted) isEvent()        {}

// TranscriptKind identifies whether a stream event is partial or final text.
type TranscriptKind string

const (
	TranscriptKindPartial TranscriptKind = "partial"
	TranscriptKindFinal   TranscriptKind = "final"
)

// TranscriptEvent represents incremental recognition output from a provider.
type TranscriptEvent struct {
	Kind          TranscriptKind `json:"kind"`
	Text          string         `json:"text"`
	IsSpeechFinal bool           `json:"isSpeechFinal"`
}

// TranscriptRecord is one finalized session stored in the history database.
type TranscriptRecord struct {
	ID        string `json:"id"`
	SessionID int    `json:"sessionId"`
	Raw       string `json:"raw"`
	Final     string `json:"final"`
	CreatedAt string `json:"createdAt"`
}
