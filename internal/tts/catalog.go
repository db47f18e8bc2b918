package tts

import (
	"fmt"
	"slices"

	"github.com/emrgen/reader/internal/model"
)

// Option is a selectable value with a display label.
type Option struct {
	Value string
	Label string
}

// Catalog lists the voice parameters a user can pick from.
type Catalog struct {
	Voices  []Option
	Speeds  []Option
	Pitches []Option
	Styles  []Option
}

var catalog = Catalog{
	Voices: []Option{
		{Value: "zh-CN-XiaoxiaoNeural", Label: "Xiaoxiao (zh-CN, female)"},
		{Value: "zh-CN-YunxiNeural", Label: "Yunxi (zh-CN, male)"},
		{Value: "zh-CN-YunyangNeural", Label: "Yunyang (zh-CN, male)"},
		{Value: "zh-CN-XiaoyiNeural", Label: "Xiaoyi (zh-CN, female)"},
		{Value: "en-US-JennyNeural", Label: "Jenny (en-US, female)"},
		{Value: "en-US-GuyNeural", Label: "Guy (en-US, male)"},
	},
	Speeds: []Option{
		{Value: "0.5", Label: "0.5x"},
		{Value: "0.75", Label: "0.75x"},
		{Value: "1.0", Label: "1.0x"},
		{Value: "1.25", Label: "1.25x"},
		{Value: "1.5", Label: "1.5x"},
		{Value: "2.0", Label: "2.0x"},
	},
	Pitches: []Option{
		{Value: "-50", Label: "lowest"},
		{Value: "-25", Label: "low"},
		{Value: "0", Label: "normal"},
		{Value: "25", Label: "high"},
		{Value: "50", Label: "highest"},
	},
	Styles: []Option{
		{Value: "general", Label: "general"},
		{Value: "assistant", Label: "assistant"},
		{Value: "chat", Label: "chat"},
		{Value: "customerservice", Label: "customer service"},
		{Value: "newscast", Label: "newscast"},
		{Value: "affectionate", Label: "affectionate"},
		{Value: "calm", Label: "calm"},
		{Value: "cheerful", Label: "cheerful"},
		{Value: "gentle", Label: "gentle"},
		{Value: "lyrical", Label: "lyrical"},
		{Value: "serious", Label: "serious"},
	},
}

// DefaultOptions is the parameter tuple of a new article.
var DefaultOptions = model.VoiceOptions{
	Voice: "zh-CN-XiaoxiaoNeural",
	Speed: "1.0",
	Pitch: "0",
	Style: "general",
}

// GetCatalog returns a copy of the option catalog.
func GetCatalog() Catalog {
	return Catalog{
		Voices:  slices.Clone(catalog.Voices),
		Speeds:  slices.Clone(catalog.Speeds),
		Pitches: slices.Clone(catalog.Pitches),
		Styles:  slices.Clone(catalog.Styles),
	}
}

func contains(options []Option, value string) bool {
	return slices.ContainsFunc(options, func(o Option) bool {
		return o.Value == value
	})
}

// Validate checks every value of the tuple against the catalog.
func Validate(opts model.VoiceOptions) error {
	switch {
	case !contains(catalog.Voices, opts.Voice):
		return fmt.Errorf("%w: unknown voice %q", model.ErrValidation, opts.Voice)
	case !contains(catalog.Speeds, opts.Speed):
		return fmt.Errorf("%w: unknown speed %q", model.ErrValidation, opts.Speed)
	case !contains(catalog.Pitches, opts.Pitch):
		return fmt.Errorf("%w: unknown pitch %q", model.ErrValidation, opts.Pitch)
	case !contains(catalog.Styles, opts.Style):
		return fmt.Errorf("%w: unknown style %q", model.ErrValidation, opts.Style)
	}

	return nil
}

// Merge fills the empty values of opts from base.
func Merge(base, opts model.VoiceOptions) model.VoiceOptions {
	if opts.Voice == "" {
		opts.Voice = base.Voice
	}
	if opts.Speed == "" {
		opts.Speed = base.Speed
	}
	if opts.Pitch == "" {
		opts.Pitch = base.Pitch
	}
	if opts.Style == "" {
		opts.Style = base.Style
	}

	return opts
}
