package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsResumeDocument(t *testing.T) {
	tests := []struct {
		name       string
		attachment Attachment
		expected   bool
	}{
		{
			name:       "pdf by content type",
			attachment: Attachment{Name: "file.bin", ContentType: "application/pdf"},
			expected:   true,
		},
		{
			name:       "docx by content type",
			attachment: Attachment{Name: "file", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
			expected:   true,
		},
		{
			name:       "pdf by extension with generic content type",
			attachment: Attachment{Name: "resume.PDF", ContentType: "application/octet-stream"},
			expected:   true,
		},
		{
			name:       "doc by extension",
			attachment: Attachment{Name: "resume.doc", ContentType: ""},
			expected:   true,
		},
		{
			name:       "image is not a resume",
			attachment: Attachment{Name: "photo.jpg", ContentType: "image/jpeg"},
			expected:   false,
		},
		{
			name:       "zip is not a resume",
			attachment: Attachment{Name: "portfolio.zip", ContentType: "application/zip"},
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsResumeDocument(tt.attachment))
		})
	}
}

func TestSelectResumeAttachment(t *testing.T) {
	t.Run("resume keyword beats cover letter", func(t *testing.T) {
		selected := SelectResumeAttachment([]Attachment{
			{Name: "cover_letter.pdf", Size: 50000},
			{Name: "john_resume.pdf", Size: 30000},
		})
		assert.Equal(t, "john_resume.pdf", selected.Name)
	})

	t.Run("cv filename beats cover letter filename", func(t *testing.T) {
		selected := SelectResumeAttachment([]Attachment{
			{Name: "CV_JohnDoe.pdf", Size: 50000},
			{Name: "CoverLetter.pdf", Size: 20000},
		})
		assert.Equal(t, "CV_JohnDoe.pdf", selected.Name)
	})

	t.Run("cv keyword counts as resume", func(t *testing.T) {
		selected := SelectResumeAttachment([]Attachment{
			{Name: "notes.pdf", Size: 400000},
			{Name: "my_cv.pdf", Size: 10000},
		})
		assert.Equal(t, "my_cv.pdf", selected.Name)
	})

	t.Run("larger file wins without keywords", func(t *testing.T) {
		selected := SelectResumeAttachment([]Attachment{
			{Name: "a.pdf", Size: 40000},
			{Name: "b.pdf", Size: 150000},
		})
		assert.Equal(t, "b.pdf", selected.Name)
	})

	t.Run("size advantage is capped", func(t *testing.T) {
		// A 10MB cover letter still loses to a small resume: size can
		// contribute at most 2 points against the 20-point keyword gap.
		selected := SelectResumeAttachment([]Attachment{
			{Name: "cover.pdf", Size: 10_000_000},
			{Name: "resume.pdf", Size: 20000},
		})
		assert.Equal(t, "resume.pdf", selected.Name)
	})

	t.Run("tie goes to the earlier attachment", func(t *testing.T) {
		selected := SelectResumeAttachment([]Attachment{
			{Name: "first.pdf", Size: 50000},
			{Name: "second.pdf", Size: 50000},
		})
		assert.Equal(t, "first.pdf", selected.Name)
	})

	t.Run("single attachment is returned as-is", func(t *testing.T) {
		selected := SelectResumeAttachment([]Attachment{
			{Name: "only.docx", Size: 1000},
		})
		assert.Equal(t, "only.docx", selected.Name)
	})
}

func TestScoreAttachment(t *testing.T) {
	assert.InDelta(t, 10.5, scoreAttachment(Attachment{Name: "resume.pdf", Size: 50000}), 0.001)
	assert.InDelta(t, -9.5, scoreAttachment(Attachment{Name: "cover_letter.pdf", Size: 50000}), 0.001)
	assert.InDelta(t, 2.0, scoreAttachment(Attachment{Name: "doc.pdf", Size: 5_000_000}), 0.001)
	// "resume" and "cover" in one name cancel out.
	assert.InDelta(t, 0.1, scoreAttachment(Attachment{Name: "resume_and_cover.pdf", Size: 10000}), 0.001)
}
