package tts

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/emrgen/reader/internal/model"
)

var _ Synthesizer = (*GoogleSynthesizer)(nil)

// GoogleSynthesizer renders mp3 through Google Cloud Text-to-Speech.
type GoogleSynthesizer struct {
	client *gctts.Client
}

// NewGoogleSynthesizer creates a client with the ambient Google credentials.
func NewGoogleSynthesizer(ctx context.Context) (*GoogleSynthesizer, error) {
	client, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	return &GoogleSynthesizer{client: client}, nil
}

func (g *GoogleSynthesizer) Close() error {
	return g.client.Close()
}

func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string, opts model.VoiceOptions) ([]byte, error) {
	req, err := googleRequest(text, opts)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: google tts: %w", model.ErrSynthesis, err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("%w: google tts returned no audio", model.ErrSynthesis)
	}

	return resp.GetAudioContent(), nil
}

// googleRequest maps the tuple onto the Google request. Pitch values are
// percentages and become semitones divided by ten. Styles have no Google
// equivalent and are dropped.
func googleRequest(text string, opts model.VoiceOptions) (*ttspb.SynthesizeSpeechRequest, error) {
	speed, err := strconv.ParseFloat(opts.Speed, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: speed %q", model.ErrValidation, opts.Speed)
	}
	pitch, err := strconv.ParseFloat(opts.Pitch, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: pitch %q", model.ErrValidation, opts.Pitch)
	}

	return &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: text}},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: languageCode(opts.Voice),
			Name:         opts.Voice,
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding: ttspb.AudioEncoding_MP3,
			SpeakingRate:  speed,
			Pitch:         pitch / 10,
		},
	}, nil
}

// languageCode extracts "zh-CN" from "zh-CN-XiaoxiaoNeural".
func languageCode(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 2 {
		return "en-US"
	}

	return parts[0] + "-" + parts[1]
}
