package cmd

import (
	"github.com/etnz/appreciation"
	"github.com/etnz/appreciation/docs"
	"github.com/etnz/appreciation/sample"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// dataPredictor suggests samples and dataset files.
type dataPredictor struct{}

func (dataPredictor) Predict(prefix string) []string {
	var options []string
	for _, name := range sample.Names() {
		options = append(options, appreciation.SamplePrefix+name)
	}
	files, dirs := predict.Files("*.jsonl"), predict.Dirs("*")
	options = append(options, files.Predict(prefix)...)
	return append(options, dirs.Predict(prefix)...)
}

// Completion returns the shell completion of the application.
func Completion() *complete.Command {
	global := map[string]complete.Predictor{
		"data":   dataPredictor{},
		"config": predict.Files("*.toml"),
		"cache":  predict.Dirs("*"),
		"v":      predict.Nothing,
	}
	return &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"report": {Flags: map[string]complete.Predictor{
				"b":   predict.Something,
				"raw": predict.Nothing,
			}},
			"chart": {Flags: map[string]complete.Predictor{
				"o":     predict.Files("*.png"),
				"title": predict.Something,
			}},
			"fmt": {Flags: map[string]complete.Predictor{
				"o": predict.Files("*.jsonl"),
			}},
			"import": {
				Flags: map[string]complete.Predictor{
					"o":    predict.Files("*.jsonl"),
					"name": predict.Something,
				},
				Args: predict.Dirs("*"),
			},
			"topic": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  predict.Set(append(docs.AllTopics(), "*")),
			},
			"help":  {},
			"flags": {},
		},
	}
}
