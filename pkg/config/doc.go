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

// Package config loads the agent configuration from YAML with
// INVENTORY_-prefixed environment overrides.
//
// Durations may be written as Go duration strings ("30s", "5m") or as
// bare numbers of seconds. Invalid values are replaced with defaults on
// load and a warning is logged for each substitution:
//
//	cfg, err := config.Load("/etc/inventory-agent/config.yaml")
//	if err != nil {
//	    return err
//	}
//	if problems := cfg.Validate(); len(problems) > 0 {
//	    ...
//	}
//
// Loader.Watch reloads the file on change and hands the new value to a
// callback, which the agent uses to update the schedule and the sender.
package config
