package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate   = regexp.MustCompile(`\b(?:(?:19|20)\d{2}[-/.]\d{1,2}[-/.]\d{1,2}|\d{1,2}[-/.]\d{1,2}[-/.](?:19|20)?\d{2})\b`)
	reCurr   = regexp.MustCompile(`\b(?:usd|eur|gbp|lyd|chf|jpy)\b|[$£€¥]`)
	reAmount = regexp.MustCompile(`\b\d{1,3}(?:[,.]\d{3})*[.,]\d{2}\b`)
	reCode   = regexp.MustCompile(`\b[a-z]{2}\d{3,4}\b|\b[a-z0-9]{6}\b|p<[a-z]{3}`)
)

// heuristicConfidence scores how much the text looks like a readable
// business document rather than OCR noise. It only feeds the extraction
// result, never the classifier.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2)
	if reDate.MatchString(txtL) {
		score += 0.2
	}
	if reCurr.MatchString(txtL) {
		score += 0.15
	}
	if reAmount.MatchString(txtL) {
		score += 0.15
	}
	if reCode.MatchString(txtL) {
		score += 0.1
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// blendConfidence weights tesseract's own word confidence over the heuristic
// when it is available.
func blendConfidence(ocrConf, heur float32) float32 {
	conf := heur
	if ocrConf > 0 {
		conf = 0.7*ocrConf + 0.3*heur
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
