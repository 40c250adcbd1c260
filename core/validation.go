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

import (
	"errors"
	"fmt"
)

// ValidateArticle validates an Article according to domain rules.
//
// Validation rules:
//   - Embedding, when present, must have dims elements (dims <= 0 skips the check)
//
// NOT validated:
//   - Title and Body (an empty article still yields an embedding request)
//   - URL, Author, Category and dates (free-form metadata)
//   - Embedding absence (pending rows are valid)
func ValidateArticle(article *Article, dims int) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}

	if err := ValidateDimensions(article.Embedding, dims); err != nil {
		return fmt.Errorf("%w: id %d: %w", ErrInvalidArticle, article.Id, err)
	}

	return nil
}

// ValidateDimensions checks that a present vector has exactly dims elements.
// Absent vectors and dims <= 0 always pass.
func ValidateDimensions(vec Vector, dims int) error {
	if dims <= 0 || !vec.Present() {
		return nil
	}
	if len(vec) != dims {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), dims)
	}
	return nil
}

// ValidateTable validates every row of a table and joins all failures.
func ValidateTable(table *Table, dims int) error {
	if table == nil {
		return fmt.Errorf("%w: table is nil", ErrInvalidTable)
	}

	var errs []error
	for _, a := range table.Articles() {
		if err := ValidateArticle(a, dims); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTable, errors.Join(errs...))
	}
	return nil
}
