package local

const (
	ThemeSystem = "system"
	ThemeDark   = "dark"
	ThemeLight  = "light"

	OrderDateModified = "dateModified"
	OrderDateCreated  = "dateCreated"

	PreviewNoteBody     = "noteBody"
	PreviewDateModified = "dateModified"
)

// Settings are the UI preferences stored next to the notes in the snapshot.
type Settings struct {
	AsideActive           bool   `json:"asideActive"`
	MarkdownPreviewActive bool   `json:"markdownPreviewActive"`
	Theme                 string `json:"theme"`
	NoteOrderPreference   string `json:"noteOrderPreference"`
	NotePreviewContents   string `json:"notePreviewContents"`
}

func DefaultSettings() Settings {
	return Settings{
		AsideActive:           true,
		MarkdownPreviewActive: true,
		Theme:                 ThemeSystem,
		NoteOrderPreference:   OrderDateModified,
		NotePreviewContents:   PreviewNoteBody,
	}
}

// storedSettings mirrors Settings with every field optional, so blobs written
// by older versions load with defaults for the fields they lack.
type storedSettings struct {
	AsideActive           *bool   `json:"asideActive,omitempty"`
	MarkdownPreviewActive *bool   `json:"markdownPreviewActive,omitempty"`
	Theme                 *string `json:"theme,omitempty"`
	NoteOrderPreference   *string `json:"noteOrderPreference,omitempty"`
	NotePreviewContents   *string `json:"notePreviewContents,omitempty"`
}

func (s storedSettings) resolve() Settings {
	out := DefaultSettings()
	if s.AsideActive != nil {
		out.AsideActive = *s.AsideActive
	}
	if s.MarkdownPreviewActive != nil {
		out.MarkdownPreviewActive = *s.MarkdownPreviewActive
	}
	if s.Theme != nil && *s.Theme != "" {
		out.Theme = *s.Theme
	}
	if s.NoteOrderPreference != nil && *s.NoteOrderPreference != "" {
		out.NoteOrderPreference = *s.NoteOrderPreference
	}
	if s.NotePreviewContents != nil && *s.NotePreviewContents != "" {
		out.NotePreviewContents = *s.NotePreviewContents
	}
	return out
}
