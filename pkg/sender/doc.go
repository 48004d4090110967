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

// Package sender delivers inventory snapshots to the collection endpoint.
//
// Each attempt POSTs a JSON envelope carrying the snapshot's asset view,
// with an optional bearer token, and classifies the result as an Outcome:
//
//	2xx            Delivered
//	401            AuthRejected
//	403            Forbidden
//	400            InvalidPayload
//	other status   ServerError
//	deadline       Timeout
//	dial failure   ConnectionFailed
//	certificate    TLSFailed
//	anything else  UnexpectedError
//
// SendWithRetry repeats Send with a fixed delay up to maxRetries+1 times,
// stopping at the first Delivered outcome. With Config.FailFast set,
// AuthRejected, Forbidden and InvalidPayload end the session at once.
//
// Delivery failures are reported as Outcomes, not errors. The Sender keeps
// atomic counters of attempts, failures and the last success for Stats.
package sender
