package translate

// Label keys for the fixed interface strings.
const (
	LabelHeading               = "heading"
	LabelLoop                  = "loopLabel"
	LabelLearningNote          = "learningNote"
	LabelYourReflection        = "yourReflection"
	LabelRespond               = "respond"
	LabelTest                  = "testLabel"
	LabelSubmit                = "submit"
	LabelReinforce             = "reinforce"
	LabelFollowUp              = "followUp"
	LabelLoopComplete          = "loopComplete"
	LabelRestart               = "restart"
	LabelContinueFlipped       = "continueFlipped"
	LabelChatTitle             = "chatTitle"
	LabelAskSelection          = "askSelection"
	LabelChatSend              = "chatSend"
	LabelChatSending           = "chatSendIng"
	LabelChatPlaceholder       = "chatPlaceholder"
	LabelReflectionPlaceholder = "reflectionPlaceholder"
	LabelReflectionTip         = "reflectionTip"
	LabelAnswerHidden          = "answerHidden"
	LabelChatTip               = "chatTip"
)

// LabelKeys lists every label in translation order.
var LabelKeys = []string{
	LabelHeading,
	LabelLoop,
	LabelLearningNote,
	LabelYourReflection,
	LabelRespond,
	LabelTest,
	LabelSubmit,
	LabelReinforce,
	LabelFollowUp,
	LabelLoopComplete,
	LabelRestart,
	LabelContinueFlipped,
	LabelChatTitle,
	LabelAskSelection,
	LabelChatSend,
	LabelChatSending,
	LabelChatPlaceholder,
	LabelReflectionPlaceholder,
	LabelReflectionTip,
	LabelAnswerHidden,
	LabelChatTip,
}

// Labels maps label keys to display strings.
type Labels map[string]string

// DefaultLabels returns the source-language interface strings.
func DefaultLabels() Labels {
	return Labels{
		LabelHeading:               "Learning loop",
		LabelLoop:                  "Learn - Test - Reinforce loop with minimal controls.",
		LabelLearningNote:          "Learning Note",
		LabelYourReflection:        "Your reflection",
		LabelRespond:               "Respond & Next",
		LabelTest:                  "Test",
		LabelSubmit:                "Submit",
		LabelReinforce:             "Reinforce testing *",
		LabelFollowUp:              "Submit follow-up",
		LabelLoopComplete:          "Loop complete",
		LabelRestart:               "Restart Loop",
		LabelContinueFlipped:       "Continue to Flipped Classroom",
		LabelChatTitle:             "Co-learning chat",
		LabelAskSelection:          "Ask about selection",
		LabelChatSend:              "Send",
		LabelChatSending:           "Sending...",
		LabelChatPlaceholder:       "Ask the tutor anything... then press Enter",
		LabelReflectionPlaceholder: "Share a thought or question, then press Enter",
		LabelReflectionTip:         "Tip: add a reflection and press Enter to unlock the test phase.",
		LabelAnswerHidden:          "Answers are hidden; you will only see correct/incorrect and hints.",
		LabelChatTip:               "Select a sentence of the learning note and ask about it. The chat never gates progress.",
	}
}

// Get returns the label for key, falling back to the default string.
func (l Labels) Get(key string) string {
	if v, ok := l[key]; ok && v != "" {
		return v
	}
	return DefaultLabels()[key]
}

// Merge returns a copy of l with the entries of override applied.
func (l Labels) Merge(override Labels) Labels {
	out := make(Labels, len(l)+len(override))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
