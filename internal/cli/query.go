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

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/tomoncle/cars"
	"github.com/tomoncle/cars/model"
)

func newOwnersCommand(opts *options) *cobra.Command {
	owners := &cobra.Command{
		Use:   "owners",
		Short: "Query car owners",
	}
	owners.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all owners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(ctx context.Context, store *cars.Store) error {
				all, err := store.Owners.FindAll(ctx)
				if err != nil {
					return err
				}
				for _, o := range all {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", o.ID, o.Name)
				}
				return nil
			})
		},
	})
	return owners
}

func newPostsCommand(opts *options) *cobra.Command {
	posts := &cobra.Command{
		Use:   "posts",
		Short: "Query sale posts",
	}
	posts.AddCommand(
		&cobra.Command{
			Use:   "last-day",
			Short: "List posts created within the last 24 hours",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listPosts(cmd, opts, func(ctx context.Context, store *cars.Store) ([]*model.Post, error) {
					return store.Posts.FindPostsLastDay(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "with-photos",
			Short: "List posts that have photos",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listPosts(cmd, opts, func(ctx context.Context, store *cars.Store) ([]*model.Post, error) {
					return store.Posts.FindPostsWithPhotos(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "by-brand <name>",
			Short: "List posts whose car brand equals name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return listPosts(cmd, opts, func(ctx context.Context, store *cars.Store) ([]*model.Post, error) {
					return store.Posts.FindPostsByCarBrand(ctx, args[0])
				})
			},
		},
	)
	return posts
}

func withStore(cmd *cobra.Command, opts *options, fn func(ctx context.Context, store *cars.Store) error) error {
	ctx := cmd.Context()
	store, err := opts.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func listPosts(cmd *cobra.Command, opts *options, find func(ctx context.Context, store *cars.Store) ([]*model.Post, error)) error {
	return withStore(cmd, opts, func(ctx context.Context, store *cars.Store) error {
		posts, err := find(ctx, store)
		if err != nil {
			return err
		}
		for _, p := range posts {
			writePost(cmd.OutOrStdout(), p)
		}
		return nil
	})
}

func writePost(w io.Writer, p *model.Post) {
	brand := "-"
	if p.Car != nil && p.Car.Name != "" {
		brand = p.Car.Name
	}
	fmt.Fprintf(w, "%d\t%s\t%s\tphotos=%d\t%s\n",
		p.ID, p.Created.UTC().Format(time.RFC3339), brand, len(p.Photos), p.Description)
}
