package content

// String-templated queries sent to the content store. The store's query
// language is treated as opaque text on this side; parameters travel
// separately so values are never spliced into the template.

const (
	articleProjection = `{
  "_id": _id,
  "slug": slug.current,
  "title": title,
  "excerpt": excerpt,
  "body": body,
  "cover_image": coverImage.asset->url,
  "region_slug": region->slug.current,
  "region_title": region->title,
  "published_at": publishedAt
}`

	magazineProjection = `{
  "_id": _id,
  "slug": slug.current,
  "title": title,
  "issue_number": issueNumber,
  "price": price,
  "cover_image": coverImage.asset->url,
  "checkout_url": checkoutUrl,
  "published_at": publishedAt
}`

	exclusiveProjection = `{
  "_id": _id,
  "slug": slug.current,
  "title": title,
  "summary": summary,
  "body": body,
  "cover_image": coverImage.asset->url,
  "published_at": publishedAt
}`

	queryListArticles = `*[_type == "article"] | order(publishedAt desc) [$offset...$end]` + articleProjection

	queryListArticlesByRegion = `*[_type == "article" && region->slug.current == $region] | order(publishedAt desc) [$offset...$end]` + articleProjection

	queryArticleBySlug = `*[_type == "article" && slug.current == $slug][0]` + articleProjection

	queryListMagazines = `*[_type == "magazine"] | order(issueNumber desc)` + magazineProjection

	queryMagazineBySlug = `*[_type == "magazine" && slug.current == $slug][0]` + magazineProjection

	queryListExclusives = `*[_type == "exclusive"] | order(publishedAt desc)` + exclusiveProjection

	queryExclusiveBySlug = `*[_type == "exclusive" && slug.current == $slug][0]` + exclusiveProjection

	queryListRegions = `*[_type == "region"] | order(title asc){
  "_id": _id,
  "slug": slug.current,
  "title": title,
  "description": description
}`

	queryMemberByEmail = `*[_type == "member" && email == $email][0]{
  "full_name": fullName,
  "email": email,
  "membership_type": membershipType,
  "status": status
}`

	queryPing = `count(*[_type == "region"])`
)
