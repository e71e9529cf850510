package main

import (
	"electrolyzer-sim/internal/sim"
	"electrolyzer-sim/internal/telemetry"
)

// newWriters wraps primary with the optional STDOUT echo and capture file.
// It returns the combined writer and a cleanup function to close any resources.
func newWriters(primary sim.EventWriter, spec telemetry.FacilitySpec, echo, capturePath string) (sim.EventWriter, func(), error) {
	cleanup := func() {}

	echoWriter, err := sim.NewStdoutWriter(echo, spec)
	if err != nil {
		return nil, nil, err
	}
	if echoWriter == nil && capturePath == "" {
		return primary, cleanup, nil
	}

	var capture sim.EventWriter
	if capturePath != "" {
		fw, err := sim.NewFileWriter(capturePath)
		if err != nil {
			return nil, nil, err
		}
		capture = fw
		cleanup = func() { fw.Close() }
	}
	return sim.NewMultiWriter(primary, echoWriter, capture), cleanup, nil
}
