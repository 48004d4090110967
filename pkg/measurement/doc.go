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

// Package measurement provides typed scalar readings for platform-specific
// inventory data such as OS release fields, kernel modules, boot parameters
// and systemd unit properties.
//
// A Measurement groups named Subtypes; each Subtype maps keys to Readings.
// Readings marshal to their bare scalar value so the wire form stays flat:
//
//	m := &measurement.Measurement{
//	    Type: measurement.TypeOS,
//	    Subtypes: []measurement.Subtype{
//	        {Name: "release", Data: map[string]measurement.Reading{
//	            "ID": measurement.Str("ubuntu"),
//	        }},
//	    },
//	}
//
// FilterOut and FilterIn drop or keep keys by wildcard pattern:
//
//	safe := measurement.FilterOut(readings, []string{"root", "*Credential*"})
package measurement
