package httpapi

import (
	"path/filepath"

	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/storage"
)

type videoInfoResponse struct {
	Filename        string  `json:"filename"`
	DurationMinutes float64 `json:"duration_minutes"`
	FPS             float64 `json:"fps"`
	FrameCount      int     `json:"frame_count"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
}

type screenshotResponse struct {
	Timestamp float64 `json:"timestamp"`
	Reason    string  `json:"reason"`
}

type transcriptLine struct {
	Timestamp float64 `json:"timestamp"`
	Text      string  `json:"text"`
}

type sessionResponse struct {
	Success             bool                    `json:"success"`
	SessionGUID         string                  `json:"session_guid"`
	SessionID           int64                   `json:"session_id"`
	ClientName          string                  `json:"client_name"`
	VideoPath           string                  `json:"video_path"`
	VideoInfo           videoInfoResponse       `json:"video_info"`
	Screenshots         []screenshotResponse    `json:"screenshots"`
	ScreenshotsCount    int                     `json:"screenshots_count"`
	Transcript          []transcriptLine        `json:"transcript"`
	SpeechSegments      []transcriptLine        `json:"speech_segments"`
	SpeechSegmentsCount int                     `json:"speech_segments_count"`
	Language            string                  `json:"language,omitempty"`
	KeywordResults      []capture.KeywordResult `json:"keyword_results"`
	ProcessingTime      float64                 `json:"processing_time"`
	Message             string                  `json:"message,omitempty"`
}

func newSessionResponse(sess *storage.Session, message string) sessionResponse {
	resp := sessionResponse{
		Success:     true,
		SessionGUID: sess.GUID,
		SessionID:   sess.ID,
		ClientName:  sess.ClientName,
		VideoPath:   sess.VideoPath,
		VideoInfo: videoInfoResponse{
			Filename:        filepath.Base(sess.VideoPath),
			DurationMinutes: sess.VideoInfo.DurationMinutes(),
			FPS:             sess.VideoInfo.FPS,
			FrameCount:      sess.VideoInfo.FrameCount,
			Width:           sess.VideoInfo.Width,
			Height:          sess.VideoInfo.Height,
		},
		Screenshots:      make([]screenshotResponse, 0, len(sess.Screenshots)),
		ScreenshotsCount: len(sess.Screenshots),
		Transcript:       []transcriptLine{},
		KeywordResults:   sess.KeywordResults,
		ProcessingTime:   sess.ProcessingTime,
		Message:          message,
	}
	if resp.KeywordResults == nil {
		resp.KeywordResults = []capture.KeywordResult{}
	}
	for _, shot := range sess.Screenshots {
		resp.Screenshots = append(resp.Screenshots, screenshotResponse{Timestamp: shot.Timestamp, Reason: shot.Reason})
	}
	if t := sess.Transcript; t != nil {
		resp.Language = t.Language
		for _, seg := range t.Segments {
			resp.Transcript = append(resp.Transcript, transcriptLine{Timestamp: seg.Start, Text: seg.Text})
		}
	}
	resp.SpeechSegments = resp.Transcript
	resp.SpeechSegmentsCount = len(resp.Transcript)
	return resp
}
