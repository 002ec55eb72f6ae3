package main

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	"github.com/sirupsen/logrus"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// TokenEstimator estimates how many model tokens a JSON document occupies.
// Useful when sizing datasets against an LLM context or training budget.
type TokenEstimator interface {
	CountTokens(text string) int
	Close()
}

const defaultTiktokenModel = "gpt-4o"
const defaultHFModel = "gpt2"

// --- Tiktoken backend ---

type tiktokenEstimator struct {
	ttk *tiktoken.Tiktoken
}

func (e *tiktokenEstimator) CountTokens(text string) int {
	if e.ttk == nil {
		return 0
	}
	return len(e.ttk.EncodeOrdinary(text))
}

func (e *tiktokenEstimator) Close() {}

// --- HuggingFace (sugarme) backend ---

type hfEstimator struct {
	htk *hf.Tokenizer
}

func (e *hfEstimator) CountTokens(text string) int {
	if e.htk == nil {
		return 0
	}
	en, err := e.htk.EncodeSingle(text)
	if err != nil {
		logrus.Warnf("HF tokenizer failed to encode text: %v", err)
		return 0
	}
	return len(en.Tokens)
}

func (e *hfEstimator) Close() {}

// newTokenEstimator builds the estimator selected by the --tokenizer flags.
func newTokenEstimator() (TokenEstimator, error) {
	logrus.Debugf("Initializing tokenizer (Type: %s, Model: %s, File: %s)", tokenizerType, tokenizerModel, tokenizerFile)

	switch strings.ToLower(tokenizerType) {
	case "tiktoken":
		return loadTiktoken()
	case "huggingface":
		return loadHuggingFace()
	default:
		return nil, fmt.Errorf("unsupported tokenizer type: %s. Use 'tiktoken' or 'huggingface'", tokenizerType)
	}
}

func loadTiktoken() (TokenEstimator, error) {
	model := tokenizerModel
	if model == "" {
		model = defaultTiktokenModel
	}

	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logrus.Warnf("Tiktoken model '%s' not found, falling back to '%s': %v", model, defaultTiktokenModel, err)
		tke, err = tiktoken.EncodingForModel(defaultTiktokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoding for default model '%s': %w", defaultTiktokenModel, err)
		}
	}
	return &tiktokenEstimator{ttk: tke}, nil
}

func loadHuggingFace() (TokenEstimator, error) {
	if tokenizerFile != "" {
		ttk, err := pretrained.FromFile(tokenizerFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer from file %s: %w", tokenizerFile, err)
		}
		return &hfEstimator{htk: ttk}, nil
	}

	model := tokenizerModel
	if model == "" {
		model = defaultHFModel
	}
	logrus.Debugf("Loading HuggingFace tokenizer for model %s (this may download files)", model)

	configFilePath, err := hf.CachedPath(model, "tokenizer.json")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache path for model %s: %w", model, err)
	}
	ttk, err := pretrained.FromFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pretrained tokenizer for model %s (from %s): %w", model, configFilePath, err)
	}
	return &hfEstimator{htk: ttk}, nil
}
