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

// Package serializer renders values as JSON, YAML or tables.
//
// Writers target an io.Writer, a file or stdout:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, snap); err != nil {
//		return err
//	}
//
// The table format flattens nested values into dotted FIELD/VALUE rows
// unless the value implements Tabular, in which case its own header and
// rows are printed.
//
// RespondJSON writes HTTP responses for the local control server. The
// body is buffered so encoding failures never produce a partial response.
package serializer
