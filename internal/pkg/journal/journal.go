// Copyright 2026 Red Hat, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package journal keeps a machine-readable record of every child the
// interpreter reaps. Each record is one JSON object per line, so the
// interpreter and the children it re-executes can append to the same file.
package journal

import (
	"os"
	"path/filepath"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/coreos/eshell/system/exec"
)

var plog = capnslog.NewPackageLogger("github.com/coreos/eshell", "journal")

// Journal appends exit reports to a file. A nil *Journal discards them.
type Journal struct {
	f   *os.File
	log *logrus.Logger
}

// Open opens the journal at path for appending, creating it if needed.
// An empty path disables the journal: Open returns nil and no error.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating journal directory for %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening journal %s", path)
	}

	log := logrus.New()
	log.SetOutput(f)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
	plog.Debugf("journaling exit reports to %s", path)
	return &Journal{f: f, log: log}, nil
}

// Report records that element, run as part of the line identified by
// runID, was reaped with r.
func (j *Journal) Report(runID, element string, r exec.ExitReport) {
	if j == nil {
		return
	}
	fields := logrus.Fields{
		"run_id":  runID,
		"element": element,
		"pid":     r.Pid,
		"reaper":  os.Getpid(),
		"status":  r.Status(),
	}
	if r.Exited {
		fields["code"] = r.Code
	} else {
		fields["signal"] = unix.SignalName(r.Signal)
	}

	entry := j.log.WithFields(fields)
	if r.Success() {
		entry.Info("reaped")
	} else {
		entry.Warn(r.String())
	}
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return errors.Wrap(j.f.Close(), "closing journal")
}
