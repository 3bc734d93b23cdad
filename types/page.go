/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// QueryFilter is a WHERE expression with its bound arguments.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{Schema: schema, Args: args}
}

// PageRequest selects a 1-based page of a listing. Orders are raw ORDER BY
// expressions such as "p.created DESC".
type PageRequest struct {
	page     int
	pageSize int
	filter   *QueryFilter
	orders   []string
}

// NewPageRequest builds a request. Page and size below 1 fall back to
// DefaultPage and DefaultPageSize.
func NewPageRequest(page, pageSize int, filter *QueryFilter, orders ...string) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, filter: filter, orders: orders}
}

func (p *PageRequest) GetPage() int {
	if p == nil || p.page < 1 {
		return DefaultPage
	}
	return p.page
}

func (p *PageRequest) GetPageSize() int {
	if p == nil || p.pageSize < 1 {
		return DefaultPageSize
	}
	return p.pageSize
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetFilter() *QueryFilter {
	if p == nil {
		return nil
	}
	return p.filter
}

func (p *PageRequest) GetOrders() []string {
	if p == nil {
		return nil
	}
	return p.orders
}

// OrDefaultOrders returns p unchanged when it carries orders, otherwise a
// copy ordered by orders.
func (p *PageRequest) OrDefaultOrders(orders ...string) *PageRequest {
	if len(p.GetOrders()) > 0 {
		return p
	}
	return NewPageRequest(p.GetPage(), p.GetPageSize(), p.GetFilter(), orders...)
}

func (p *PageRequest) String() string {
	var b strings.Builder
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(p.GetPage()))
	b.WriteString(" size=")
	b.WriteString(strconv.Itoa(p.GetPageSize()))
	if orders := p.GetOrders(); len(orders) > 0 {
		b.WriteString(" order=")
		b.WriteString(strings.Join(orders, ","))
	}
	return b.String()
}

// Pagination is one page of items plus the total number of matching rows.
type Pagination[T any] struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	Items    []*T `json:"items"`
}

func NewPagination[T any](req *PageRequest) *Pagination[T] {
	return &Pagination[T]{Page: req.GetPage(), PageSize: req.GetPageSize(), Items: make([]*T, 0)}
}

// TotalPages returns the number of pages needed for Total items.
func (p *Pagination[T]) TotalPages() int {
	if p.Total == 0 || p.PageSize < 1 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p *Pagination[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}
