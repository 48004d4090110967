// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package file provides a small parser for the text files providers read:
// /proc entries, sysfs attributes, os-release and resolv.conf.
//
// A Parser is configured with options and then reads a file as lines,
// whitespace-separated fields, key/value pairs or a single value:
//
//	p := file.NewParser(
//	    file.WithKVDelimiter(":"),
//	)
//	mem, err := p.GetMap("/proc/meminfo")
//
// WithRoot resolves all paths under a different root, which lets providers
// read a mounted host filesystem and lets tests point at fixture trees:
//
//	p := file.NewParser(file.WithRoot(t.TempDir()))
//
// Files larger than the size cap (1MB by default) or containing invalid UTF-8
// are rejected with an error. Parsers hold no state between calls and are
// safe for concurrent use.
package file
