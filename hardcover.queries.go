package main

// GraphQL operations sent to the Hardcover endpoint. The user book
// fragment is appended to every operation returning a user_books shape
// so all of them decode into the same UserBook structure.

const userBookFragment = `
    fragment userBookFragment on user_books {
        id
        status_id
        book_id
        book {
            slug
            title
        }
        edition {
            id
            pages
        }
        user_book_reads(order_by: {started_at: desc}, where: {finished_at: {_is_null: true}}) {
            id
            started_at
            finished_at
            edition_id
            progress_pages
        }
    }`

const queryPrivacySetting = `
    {
        me {
            account_privacy_setting_id
        }
    }`

const queryUserBookByEdition = `
    query ($query: Int) {
        me {
            user_books(where: {edition_id: {_eq: $query}}) {
                ...userBookFragment
            }
        }
    }` + userBookFragment

const queryUserBookByBook = `
    query ($query: Int) {
        me {
            user_books(where: {book: {id: {_eq: $query}}}) {
                ...userBookFragment
            }
        }
    }` + userBookFragment

const queryUserBookBySlug = `
    query ($slug: String!) {
        me {
            user_books(where: {book: {slug: {_eq: $slug}}}) {
                ...userBookFragment
            }
        }
    }` + userBookFragment

const queryBookIDBySlug = `
    query ($slug: String!) {
        books(where: {slug: {_eq: $slug}}) {
            id
        }
    }`

const queryBookIDBySlugAndISBN = `
    query ($slug: String!, $isbn: String!) {
        books(where: {slug: {_eq: $slug}}) {
            id
            editions(where: {isbn_13: {_eq: $isbn}}) {
                id
            }
        }
    }`

const mutationChangeBookStatus = `
    mutation ($id: Int!, $status_id: Int!) {
        update_user_book(id: $id, object: {status_id: $status_id}) {
            error
            user_book {
                ...userBookFragment
            }
        }
    }` + userBookFragment

const mutationInsertUserBook = `
    mutation ($object: UserBookCreateInput!) {
        insert_user_book(object: $object) {
            error
            user_book {
                ...userBookFragment
            }
        }
    }` + userBookFragment

const mutationInsertUserBookRead = `
    mutation ($id: Int!, $pages: Int, $editionId: Int, $startedAt: date) {
        insert_user_book_read(user_book_id: $id, user_book_read: {
            progress_pages: $pages,
            edition_id: $editionId,
            started_at: $startedAt,
        }) {
            error
            user_book_read {
                id
                started_at
                finished_at
                edition_id
                progress_pages
            }
        }
    }`

const mutationUpdateUserBookRead = `
    mutation ($readId: Int!, $pages: Int, $editionId: Int, $startedAt: date, $finishedAt: date) {
        update_user_book_read(id: $readId, object: {
            progress_pages: $pages,
            edition_id: $editionId,
            started_at: $startedAt,
            finished_at: $finishedAt
        }) {
            id
        }
    }`

const queryAuthorInfo = `
    query GetAuthorInfo($author: String!) {
        authors(where: {slug: {_eq: $author}}) {
            bio
            name
            cached_image
            slug
        }
    }`

const queryOtherAuthorBooks = `
    query otherBooksFromAuthor($author: String!) {
        authors(where: {slug: {_eq: $author}}) {
            contributions(where: {contributable_type: {_eq: "Book"}}, order_by: {book: {title: asc}}) {
                book {
                    title
                    slug
                    image {
                        url
                    }
                }
            }
        }
    }`

const querySearchBooks = `
    query Search($query: String!, $perPage: Int!) {
        search(query: $query, query_type: "Book", per_page: $perPage) {
            results
        }
    }`

const queryBookEditions = `
    query getEditions($query: Int!) {
        books(
            where: { id: { _eq: $query } }
            order_by: { users_read_count: desc_nulls_last }
        ) {
            title
            slug
            id
            book_series {
                series {
                    name
                }
                position
            }
            rating
            editions(
                where: {
                    _or: [{ reading_format_id: { _neq: 2 } }, { edition_format: { _is_null: true } }]
                }
                order_by: [{ reading_format_id: desc_nulls_last }, { users_count: desc_nulls_last }]
            ) {
                id
                isbn_13
                isbn_10
                title
                edition_format
                reading_format_id
                contributions {
                    author {
                        name
                    }
                }
                image {
                    url
                }
                language {
                    code3
                }
                publisher {
                    name
                }
                release_date
            }
            description
            cached_tags(path: "Genre")
        }
    }`
