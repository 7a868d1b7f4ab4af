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

package cmdtree

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	for _, tt := range []struct {
		name string
		tree *Tree
		err  string
	}{
		{"single command", &Tree{None, []Element{Command("ls", "-l")}}, ""},
		{"single subshell", &Tree{None, []Element{Subshell("echo hi")}}, ""},
		{"pipe", &Tree{Pipe, []Element{Command("ls"), Subshell("cat"), Command("wc", "-l")}}, ""},
		{"sequential with pipeline", &Tree{Sequential, []Element{
			Command("false"),
			Pipeline(Command("echo", "a"), Command("cat")),
		}}, ""},
		{"parallel", &Tree{Parallel, []Element{Command("sleep", "1"), Command("sleep", "1")}}, ""},

		{"empty", &Tree{}, "no elements"},
		{"none with two", &Tree{None, []Element{Command("a"), Command("b")}}, "want 1"},
		{"none with pipeline", &Tree{None, []Element{Pipeline(Command("a"), Command("b"))}}, "not allowed"},
		{"sequential with one", &Tree{Sequential, []Element{Command("a")}}, "want more than 1"},
		{"parallel with subshell", &Tree{Parallel, []Element{Command("a"), Subshell("b")}}, "not allowed"},
		{"pipe with pipeline", &Tree{Pipe, []Element{Command("a"), Pipeline(Command("b"), Command("c"))}}, "not allowed"},
		{"empty argv", &Tree{Pipe, []Element{Command("a"), Command()}}, "no arguments"},
		{"blank subshell", &Tree{None, []Element{Subshell("  ")}}, "empty subshell"},
		{"short nested pipeline", &Tree{Sequential, []Element{Command("a"), Pipeline(Command("b"))}}, "want more than 1"},
		{"unknown separator", &Tree{Separator(9), []Element{Command("a")}}, "unknown"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tree.Validate()
			switch {
			case tt.err == "" && err != nil:
				t.Errorf("unexpected error: %v", err)
			case tt.err != "" && err == nil:
				t.Errorf("expected error containing %q", tt.err)
			case tt.err != "" && !strings.Contains(err.Error(), tt.err):
				t.Errorf("error %q does not contain %q", err, tt.err)
			}
		})
	}
}

func TestString(t *testing.T) {
	for _, tt := range []struct {
		tree *Tree
		want string
	}{
		{&Tree{None, []Element{Command("echo", "hello world")}}, `echo 'hello world'`},
		{&Tree{None, []Element{Command("echo", "a|b")}}, `echo a\|b`},
		{&Tree{None, []Element{Subshell("cat")}}, `(cat)`},
		{&Tree{Pipe, []Element{Subshell("cat"), Subshell("grep x & grep y &")}}, `(cat) | (grep x & grep y &)`},
		{&Tree{Parallel, []Element{
			Pipeline(Command("ls"), Command("wc", "-l")),
			Command("sleep", "1"),
		}}, `ls | wc -l & sleep 1`},
		{&Tree{Sequential, []Element{Command("false"), Command("echo", "done")}}, `false ; echo done`},
	} {
		if got := tt.tree.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEmpty(t *testing.T) {
	var nilTree *Tree
	if !nilTree.Empty() || !(&Tree{}).Empty() {
		t.Errorf("empty trees not reported empty")
	}
	if (&Tree{None, []Element{Command("ls")}}).Empty() {
		t.Errorf("single command reported empty")
	}
}
