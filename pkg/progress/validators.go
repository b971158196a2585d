package progress

// LectureItem is one entry in a chapter listing: the user's progress row
// joined with catalog data, plus the resolved content location.
type LectureItem struct {
	LectureID       int    `json:"lecture_id"`
	Name            string `json:"name"`
	Watched         bool   `json:"watched"`
	DurationSeconds int64  `json:"duration_seconds"`
	Location        string `json:"location"`
	ChapterID       int    `json:"chapter_id"`
	ChapterName     string `json:"chapter_name"`
	SubjectName     string `json:"subject_name"`
}

// ToggleResponse is the result of a watched toggle.
type ToggleResponse struct {
	LectureID int  `json:"lecture_id"`
	Watched   bool `json:"watched"`
}
