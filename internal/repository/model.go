package repository

// NoteDelimiter separates individual notes inside Version.UserNotes.
const NoteDelimiter = "\n\n"

// Version is a reviewable media item and the notes taken against it.
type Version struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UserNotes  string `json:"user_notes"`
	AINotes    string `json:"ai_notes"`
	Transcript string `json:"transcript"`
	Status     string `json:"status,omitempty"`
}
