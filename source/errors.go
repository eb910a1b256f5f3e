// Copyright 2025 Poiesic Systems
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

package source

import "errors"

var (
	// ErrInvalidURL indicates a URL is malformed, not http(s), or has no host.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrBlockedURL indicates a URL points at a private or local address.
	ErrBlockedURL = errors.New("URL points at a private address")

	// ErrUnsupportedDocument indicates a file type the extractor cannot read.
	ErrUnsupportedDocument = errors.New("unsupported document type")

	// ErrDuplicateDocument indicates a document id already present in the work set.
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrContentTooLarge indicates a fetched body or file exceeds the size limit.
	ErrContentTooLarge = errors.New("content too large")

	// ErrFetchFailed indicates the remote server did not return usable content.
	ErrFetchFailed = errors.New("fetch failed")
)
