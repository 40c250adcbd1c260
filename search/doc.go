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


// Package search finds articles similar to a given article or query text.
//
// An Index holds the unit-normalized embeddings of every embedded row of a
// table and ranks neighbours by cosine similarity. A Searcher embeds free
// text with an ai.Embedder and looks it up in an Index. A Dataset loads the
// final table and builds its Index once, then serves both to every caller.
package search
