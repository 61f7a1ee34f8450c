package mail

import (
	"path/filepath"
	"strings"
)

var resumeKeywords = []string{"resume", "cv"}
var coverKeywords = []string{"cover", "letter"}

var resumeContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var resumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// IsResumeDocument reports whether an attachment is a document type we can
// screen, by content type or by extension.
func IsResumeDocument(att Attachment) bool {
	if resumeContentTypes[strings.ToLower(att.ContentType)] {
		return true
	}
	return resumeExtensions[strings.ToLower(filepath.Ext(att.Name))]
}

// SelectResumeAttachment picks the attachment most likely to be the actual
// resume when a message carries several documents. Filename keywords score
// +10 (resume/CV) or -10 (cover letter), plus up to 2 points proportional
// to file size since full resumes tend to outweigh short cover notes. Ties
// go to the earlier attachment.
func SelectResumeAttachment(attachments []Attachment) Attachment {
	best := attachments[0]
	bestScore := scoreAttachment(best)

	for _, att := range attachments[1:] {
		if score := scoreAttachment(att); score > bestScore {
			best = att
			bestScore = score
		}
	}

	return best
}

func scoreAttachment(att Attachment) float64 {
	name := strings.ToLower(att.Name)

	var score float64
	for _, kw := range resumeKeywords {
		if strings.Contains(name, kw) {
			score += 10
			break
		}
	}
	for _, kw := range coverKeywords {
		if strings.Contains(name, kw) {
			score -= 10
			break
		}
	}

	sizePoints := float64(att.Size) / 100000
	if sizePoints > 2 {
		sizePoints = 2
	}

	return score + sizePoints
}
