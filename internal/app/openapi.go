package app

// OpenAPISpec is the OpenAPI 3.0 description served by the Swagger UI
var OpenAPISpec = []byte(`openapi: "3.0.3"
info:
  title: Neo-Insight Engagement Analytics API
  description: |
    Builds engagement insight reports for public social media accounts on
    Instagram, Twitter, and YouTube. Reports are cached; pass refresh=true
    to force a rebuild.
  version: "1.0.0"
servers:
  - url: /api/v1
paths:
  /insights/{platform}/{account}:
    get:
      summary: Build or fetch an insight report
      parameters:
        - $ref: "#/components/parameters/Platform"
        - $ref: "#/components/parameters/Account"
        - name: maxItems
          in: query
          description: Cap on records analyzed (1-500, default 100)
          schema: { type: integer, minimum: 1, maximum: 500 }
        - name: tweetCount
          in: query
          description: Twitter-only override for maxItems
          schema: { type: integer, minimum: 1, maximum: 500 }
        - name: refresh
          in: query
          description: Bypass the cache and rebuild
          schema: { type: boolean }
      responses:
        "200":
          description: Insight report
          headers:
            X-Cache:
              schema: { type: string, enum: [HIT, MISS] }
          content:
            application/json:
              schema: { $ref: "#/components/schemas/Report" }
        "400": { $ref: "#/components/responses/BadRequest" }
        "404": { $ref: "#/components/responses/NotFound" }
        "429": { $ref: "#/components/responses/RateLimited" }
        "502": { $ref: "#/components/responses/UpstreamError" }
  /insights/{platform}/{account}/summary:
    get:
      summary: Fetch the cached report summary
      parameters:
        - $ref: "#/components/parameters/Platform"
        - $ref: "#/components/parameters/Account"
      responses:
        "200":
          description: Flattened summary of the latest cached report
          content:
            application/json:
              schema: { type: object }
        "404": { $ref: "#/components/responses/NotFound" }
  /insights/{platform}/{account}/history:
    get:
      summary: List past report runs
      parameters:
        - $ref: "#/components/parameters/Platform"
        - $ref: "#/components/parameters/Account"
      responses:
        "200":
          description: Past runs, newest first
          content:
            application/json:
              schema:
                type: object
                properties:
                  runs:
                    type: array
                    items: { $ref: "#/components/schemas/ReportRun" }
components:
  parameters:
    Platform:
      name: platform
      in: path
      required: true
      schema: { type: string, enum: [instagram, twitter, youtube] }
    Account:
      name: account
      in: path
      required: true
      description: Username, handle, or channel reference
      schema: { type: string }
  responses:
    BadRequest:
      description: Invalid platform or parameters
      content:
        application/json:
          schema: { $ref: "#/components/schemas/Error" }
    NotFound:
      description: Account has no data or nothing is cached
      content:
        application/json:
          schema: { $ref: "#/components/schemas/Error" }
    RateLimited:
      description: Upstream provider rate limit exceeded
      content:
        application/json:
          schema: { $ref: "#/components/schemas/Error" }
    UpstreamError:
      description: Upstream provider failed
      content:
        application/json:
          schema: { $ref: "#/components/schemas/Error" }
  schemas:
    Error:
      type: object
      properties:
        error: { type: string }
    Report:
      type: object
      properties:
        platform: { type: string }
        accountRef: { type: string }
        generatedAt: { type: string, format: date-time }
        userMetrics:
          type: object
          properties:
            username: { type: string }
            followerCount: { type: integer }
            engagementRate: { type: number }
            growthRateEstimate: { type: number }
        contentMetrics:
          type: object
          properties:
            itemsAnalyzed: { type: integer }
            truncated: { type: boolean }
            avgLikes: { type: number }
            postingFrequencyPerWeek: { type: number }
        qualitativeInsights:
          type: object
          properties:
            contentTone: { type: string }
            dominantThemes:
              type: array
              items: { type: string }
    ReportRun:
      type: object
      properties:
        id: { type: string, format: uuid }
        platform: { type: string }
        accountRef: { type: string }
        followerCount: { type: integer }
        engagementRate: { type: number }
        itemsAnalyzed: { type: integer }
        createdAt: { type: string, format: date-time }
`)
