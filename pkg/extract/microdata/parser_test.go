// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

package microdata_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/yfedoseev/meta-oxide/pkg/extract/microdata"
	"github.com/yfedoseev/meta-oxide/pkg/extract/structdata"
)

func parseHTML(t *testing.T, src, baseURL string) []*structdata.Item {
	t.Helper()
	root, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)

	return microdata.ParseNode(root, baseURL)
}

func TestItemScope(t *testing.T) {
	t.Run("simple item", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope itemtype="https://schema.org/Person">
				<p>My name is <span itemprop="name">Penelope</span>.</p>
			</div>
		`, "")

		require.Len(t, items, 1)
		require.Equal(t, []string{"https://schema.org/Person"}, items[0].Types)
		v, ok := items[0].Get("name")
		require.True(t, ok)
		require.Equal(t, "Penelope", v.Str)
	})

	t.Run("itemscope without itemtype", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope><span itemprop="name">Untyped</span></div>
		`, "")

		require.Len(t, items, 1)
		require.Empty(t, items[0].Types)
		v, _ := items[0].Get("name")
		require.Equal(t, "Untyped", v.Str)
	})

	t.Run("multiple itemtype tokens", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope itemtype="https://schema.org/Person https://schema.org/Author"></div>
		`, "")

		require.Len(t, items, 1)
		require.Equal(t, []string{
			"https://schema.org/Person",
			"https://schema.org/Author",
		}, items[0].Types)
	})

	t.Run("two top-level items in document order", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope itemtype="https://schema.org/Movie">
				<h1 itemprop="name">Avatar</h1>
			</div>
			<div itemscope itemtype="https://schema.org/Movie">
				<h1 itemprop="name">Jaws</h1>
			</div>
		`, "")

		require.Len(t, items, 2)
		first, _ := items[0].Get("name")
		require.Equal(t, "Avatar", first.Str)
		second, _ := items[1].Get("name")
		require.Equal(t, "Jaws", second.Str)
	})
}

func TestItemID(t *testing.T) {
	items := parseHTML(t, `
		<ul itemscope itemtype="https://schema.org/Book" itemid="urn:isbn:978-0141196404">
			<li itemprop="name">The Black Cloud</li>
		</ul>
	`, "https://example.org/")

	require.Len(t, items, 1)
	require.Equal(t, "urn:isbn:978-0141196404", items[0].ID)
}

func TestPropertyValues(t *testing.T) {
	t.Run("value sources per element type", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope itemtype="https://schema.org/Recipe">
				<meta itemprop="datePublished" content="2009-05-08">
				<img itemprop="image" src="bananabread.jpg" alt="">
				<a itemprop="url" href="/recipes/banana-bread">Recipe</a>
				<link itemprop="sameAs" href="https://example.org/banana">
				<time itemprop="cookTime" datetime="PT1H">1 hour</time>
				<span itemprop="recipeYield">1 loaf</span>
				<object itemprop="attachment" data="/files/card.pdf"></object>
			</div>
		`, "https://example.org/")

		require.Len(t, items, 1)
		it := items[0]

		v, _ := it.Get("date_published")
		require.Equal(t, "2009-05-08", v.Str)
		v, _ = it.Get("image")
		require.Equal(t, structdata.KindURL, v.Kind)
		require.Equal(t, "https://example.org/bananabread.jpg", v.Str)
		v, _ = it.Get("url")
		require.Equal(t, "https://example.org/recipes/banana-bread", v.Str)
		v, _ = it.Get("same_as")
		require.Equal(t, "https://example.org/banana", v.Str)
		v, _ = it.Get("cook_time")
		require.Equal(t, structdata.KindDateTime, v.Kind)
		require.Equal(t, "PT1H", v.Str)
		v, _ = it.Get("recipe_yield")
		require.Equal(t, "1 loaf", v.Str)
		v, _ = it.Get("attachment")
		require.Equal(t, "https://example.org/files/card.pdf", v.Str)
	})

	t.Run("data and meter values", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope itemtype="https://schema.org/Container">
				<data itemprop="capacity" value="80">80 liters</data>
				<meter itemprop="volume" min="0" max="100" value="25.5">25.5%</meter>
				<data itemprop="code" value="A-12">A-12</data>
			</div>
		`, "")

		it := items[0]
		v, _ := it.Get("capacity")
		require.Equal(t, structdata.KindNumber, v.Kind)
		require.Equal(t, 80.0, v.Num)
		v, _ = it.Get("volume")
		require.Equal(t, 25.5, v.Num)
		v, _ = it.Get("code")
		require.Equal(t, structdata.KindText, v.Kind)
		require.Equal(t, "A-12", v.Str)
	})

	t.Run("time without datetime falls back to text", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope><time itemprop="start">2024-06-01</time></div>
		`, "")

		v, _ := items[0].Get("start")
		require.Equal(t, "2024-06-01", v.Str)
	})

	t.Run("text keeps internal whitespace", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope><span itemprop="note">  two  words  </span></div>
		`, "")

		v, _ := items[0].Get("note")
		require.Equal(t, "two  words", v.Str)
	})

	t.Run("empty values are omitted", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope>
				<meta itemprop="description" content="">
				<span itemprop="name">   </span>
			</div>
		`, "")

		require.Equal(t, 0, items[0].Len())
	})
}

func TestPropertyAggregation(t *testing.T) {
	items := parseHTML(t, `
		<div itemscope itemtype="https://schema.org/Movie">
			<span itemprop="genre">Action</span>
			<div><span itemprop="genre">Fiction</span></div>
			<span itemprop="genre">Science fiction</span>
			<span itemprop="director">James Cameron</span>
		</div>
	`, "")

	it := items[0]
	genre, _ := it.Get("genre")
	require.Equal(t, structdata.KindList, genre.Kind)
	require.Len(t, genre.List, 3)
	require.Equal(t, "Action", genre.List[0].Str)
	require.Equal(t, "Fiction", genre.List[1].Str)
	require.Equal(t, "Science fiction", genre.List[2].Str)

	director, _ := it.Get("director")
	require.Equal(t, structdata.KindText, director.Kind)
}

func TestNestedItems(t *testing.T) {
	t.Run("dual role yields a nested item", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope itemtype="https://schema.org/Person">
				<span itemprop="name">Jane</span>
				<div itemprop="address" itemscope itemtype="https://schema.org/PostalAddress">
					<span itemprop="streetAddress">123 Main St</span>
				</div>
			</div>
		`, "")

		require.Len(t, items, 1)
		address, ok := items[0].Get("address")
		require.True(t, ok)
		require.Equal(t, structdata.KindItem, address.Kind)
		require.Equal(t, []string{"https://schema.org/PostalAddress"}, address.Item.Types)

		street, ok := address.Item.Get("street_address")
		require.True(t, ok)
		require.Equal(t, "123 Main St", street.Str)

		// The nested scope's properties never reach the root.
		_, ok = items[0].Get("street_address")
		require.False(t, ok)
	})

	t.Run("repeated nested properties", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope itemtype="https://schema.org/Movie">
				<div itemprop="author" itemscope itemtype="https://schema.org/Person">
					<span itemprop="name">Ted Elliott</span>
				</div>
				<div itemprop="author" itemscope itemtype="https://schema.org/Person">
					<span itemprop="name">Terry Rossio</span>
				</div>
			</div>
		`, "")

		author, _ := items[0].Get("author")
		require.Equal(t, structdata.KindList, author.Kind)
		require.Len(t, author.List, 2)
		name, _ := author.List[1].Item.Get("name")
		require.Equal(t, "Terry Rossio", name.Str)
	})

	t.Run("itemscope without itemprop inside a scope stays top level", func(t *testing.T) {
		items := parseHTML(t, `
			<div itemscope itemtype="https://schema.org/WebPage">
				<span itemprop="name">Page</span>
				<div itemscope itemtype="https://schema.org/Person">
					<span itemprop="name">Someone</span>
				</div>
			</div>
		`, "")

		require.Len(t, items, 2)
		_, ok := items[0].Get("person")
		require.False(t, ok)
	})
}

func TestMultiTokenItemprop(t *testing.T) {
	items := parseHTML(t, `
		<div itemscope itemtype="https://schema.org/Event">
			<span itemprop="name headline">Concert</span>
		</div>
	`, "")

	it := items[0]
	for _, name := range []string{"name", "headline"} {
		v, ok := it.Get(name)
		require.True(t, ok, name)
		require.Equal(t, "Concert", v.Str)
	}
}

func TestItemRef(t *testing.T) {
	items := parseHTML(t, `
		<div itemscope itemtype="https://schema.org/Movie" itemref="props">
			<p><span itemprop="name">Rear Window</span> is a movie from 1954.</p>
		</div>
		<ul id="props">
			<li itemprop="genre">Thriller</li>
			<li itemprop="description">A homebound photographer spies on his neighbours.</li>
		</ul>
	`, "")

	require.Len(t, items, 1)
	it := items[0]

	v, _ := it.Get("name")
	require.Equal(t, "Rear Window", v.Str)
	v, _ = it.Get("genre")
	require.Equal(t, "Thriller", v.Str)
	v, _ = it.Get("description")
	require.Equal(t, "A homebound photographer spies on his neighbours.", v.Str)
}

func TestMovieDocument(t *testing.T) {
	items := parseHTML(t, `
		<div itemscope itemtype="https://schema.org/Movie">
			<h1 itemprop="name">Pirates of the Carribean: On Stranger Tides (2011)</h1>
			Director:
			<div itemprop="director" itemscope itemtype="https://schema.org/Person">
				<span itemprop="name">Rob Marshall</span>
			</div>
			<div itemprop="aggregateRating" itemscope itemtype="https://schema.org/AggregateRating">
				<span itemprop="ratingValue">8</span>/<span itemprop="bestRating">10</span> stars from
				<span itemprop="ratingCount">200</span> users.
			</div>
			<a href="../movies/trailer.html" itemprop="trailer">Trailer</a>
		</div>
	`, "https://example.org/films/")

	require.Len(t, items, 1)
	data, err := json.Marshal(items[0])
	require.NoError(t, err)

	require.JSONEq(t, `{
		"type": ["https://schema.org/Movie"],
		"properties": {
			"name": "Pirates of the Carribean: On Stranger Tides (2011)",
			"director": {
				"type": ["https://schema.org/Person"],
				"properties": {"name": "Rob Marshall"}
			},
			"aggregate_rating": {
				"type": ["https://schema.org/AggregateRating"],
				"properties": {
					"rating_value": "8",
					"best_rating": "10",
					"rating_count": "200"
				}
			},
			"trailer": "https://example.org/movies/trailer.html"
		}
	}`, string(data))
}
