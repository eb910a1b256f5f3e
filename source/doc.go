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

// Package source assembles the input of an import batch.
//
// A WorkSet holds the URLs and extracted documents an operator wants to
// import. URLs are validated and de-duplicated as they are added. Documents
// come from an Extractor; FileExtractor handles text, markdown and HTML files.
//
// Fetcher retrieves URL sources at generation time and converts HTML pages to
// markdown. By default it refuses private and loopback addresses. Rate-limited,
// server-error and timed-out requests are retried with exponential backoff.
package source
