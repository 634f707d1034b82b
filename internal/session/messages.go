package session

import "fmt"

const (
	messageNotInMeeting         = "Not in a meeting."
	messageNoVersionSelected    = "No version selected."
	messageMeetingFormat        = "Meeting: %s"
	messageVersionFormat        = "Version: %s (%s, selected at %s, %s ago)"
	messageTranscriptSizeFormat = "Transcript: %d segments seen, %d lines"

	messageJoinedFormat   = "Joined %s. Transcript polling started."
	messageLeftFormat     = "Left %s."
	messageSelectedFormat = "Selected %s (%s)."
	messageLanguageFormat = "Transcription language set to %s."
)

func JoinedMessage(meetingID string) string {
	return fmt.Sprintf(messageJoinedFormat, meetingID)
}

func LeftMessage(meetingID string) string {
	return fmt.Sprintf(messageLeftFormat, meetingID)
}

func SelectedMessage(id, name string) string {
	return fmt.Sprintf(messageSelectedFormat, name, id)
}

func LanguageMessage(language string) string {
	return fmt.Sprintf(messageLanguageFormat, language)
}
