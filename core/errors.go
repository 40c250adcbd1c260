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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidArticle indicates an Article failed validation.
	ErrInvalidArticle = errors.New("invalid article")

	// ErrInvalidTable indicates a Table failed validation.
	ErrInvalidTable = errors.New("invalid table")

	// ErrDuplicateID indicates two rows share an ID.
	ErrDuplicateID = errors.New("duplicate article id")

	// ErrUnknownID indicates an ID that is not present in the table.
	ErrUnknownID = errors.New("unknown article id")

	// ErrAlreadyEmbedded indicates an attempt to overwrite an existing embedding.
	ErrAlreadyEmbedded = errors.New("article already embedded")

	// ErrEmptyEmbedding indicates an empty vector was supplied as an embedding.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrDimensionMismatch indicates an embedding of the wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
