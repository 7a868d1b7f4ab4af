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

package engine

import (
	"github.com/coreos/eshell/internal/pkg/cmdtree"
	"github.com/coreos/eshell/system/exec"
)

// runSequential runs each element to completion before starting the next.
// A failing element does not stop the list.
func (r *Runner) runSequential(elements []cmdtree.Element) exec.ExitReport {
	var last exec.ExitReport
	for _, el := range elements {
		last = r.wait(r.start(el, r.Stdio, false))
	}
	return last
}

// runParallel starts every element, then reaps them in order.
func (r *Runner) runParallel(elements []cmdtree.Element, stdio exec.Stdio) exec.ExitReport {
	children := make([]*child, 0, len(elements))
	for _, el := range elements {
		children = append(children, r.start(el, stdio, false))
	}

	var last exec.ExitReport
	for _, c := range children {
		last = r.wait(c)
	}
	return last
}
